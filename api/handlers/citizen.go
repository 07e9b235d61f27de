package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/assistant"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

// Citizen handles citizen account requests
type Citizen struct {
	DB          databases.CitizenDatabase
	Transcripts *assistant.TranscriptStore
}

// RegisterHandler creates a new citizen account
func (c Citizen) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Phone == "" {
		config.ErrorStatus("username, password, and phone number are required", http.StatusBadRequest, w,
			errors.New("missing required field"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := c.DB.FindOne(ctx, bson.M{"username": req.Username})
	if err == nil {
		config.ErrorStatus("username already exists", http.StatusConflict, w,
			errors.New("duplicate username"))
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("failed to check username", http.StatusInternalServerError, w, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	_, err = c.DB.InsertOne(ctx, models.Citizen{
		Username:  req.Username,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().UTC()),
	})
	if err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Registration successful! Please login."})
}

// LoginHandler verifies citizen credentials and establishes a session
func (c Citizen) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		config.ErrorStatus("username and password are required", http.StatusBadRequest, w,
			errors.New("missing required field"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	citizen, err := c.DB.FindOne(ctx, bson.M{"username": req.Username})
	if err != nil {
		config.ErrorStatus("invalid username or password", http.StatusUnauthorized, w,
			errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(citizen.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid username or password", http.StatusUnauthorized, w,
			errors.New("invalid credentials"))
		return
	}

	token := api.NewCitizenSession(r, citizen.Username)

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.LoginResponse{
		Token:    token,
		Username: citizen.Username,
		Role:     api.RoleCitizen,
	})
}

// LogoutHandler revokes the session and drops its chat transcript
func (c Citizen) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := api.AuthFromContext(r.Context())
	if ok && c.Transcripts != nil {
		if err := c.Transcripts.Clear(r.Context(), authCtx.SessionID); err != nil {
			zap.S().With(err).Warn("failed to clear chat transcript on logout")
		}
	}

	api.RevokeSession(r)

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Successfully logged out!"})
}
