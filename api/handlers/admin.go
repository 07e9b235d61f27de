package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

// Admin handles administrator authentication
type Admin struct {
	DB databases.AdminDatabase
}

// AdminLoginHandler verifies administrator credentials and returns a signed
// token scoped to the administrator's station
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.AdminID = strings.TrimSpace(req.AdminID)
	if req.AdminID == "" || req.Password == "" {
		config.ErrorStatus("admin id and password are required", http.StatusBadRequest, w,
			errors.New("missing required field"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := h.DB.FindOne(ctx, bson.M{"admin_id": req.AdminID})
	if err != nil {
		config.ErrorStatus("invalid admin id or password", http.StatusUnauthorized, w,
			errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid admin id or password", http.StatusUnauthorized, w,
			errors.New("invalid credentials"))
		return
	}

	token, err := api.NewAdminSession(admin.AdminID, admin.StationName)
	if err != nil {
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.AdminLoginResponse{
		Token:       token,
		AdminID:     admin.AdminID,
		StationName: admin.StationName,
	})
}
