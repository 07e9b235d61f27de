package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

// Officer handles station roster requests
type Officer struct {
	DB databases.OfficerDatabase
}

// OfficersByStationHandler returns the caller's station roster sorted by name
func (o Officer) OfficersByStationHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"station_name": authCtx.Station}
	if r.URL.Query().Get("active") == "true" {
		filter["is_active"] = true
	}

	dbResp, err := o.DB.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get officers", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Officer{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddOfficerHandler adds an officer to the caller's station roster. The
// (badge, station) pair must be unique.
func (o Officer) AddOfficerHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	var req models.AddOfficerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.BadgeID = strings.TrimSpace(req.BadgeID)
	if req.Name == "" || req.BadgeID == "" {
		config.ErrorStatus("officer name and badge id are required", http.StatusBadRequest, w,
			errors.New("missing required field"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := o.DB.FindOne(ctx, bson.M{
		"badge_id":     req.BadgeID,
		"station_name": authCtx.Station,
	})
	if err == nil {
		config.ErrorStatus("officer already exists", http.StatusConflict, w,
			fmt.Errorf("an officer with badge id %s already exists", req.BadgeID))
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("failed to check badge id", http.StatusInternalServerError, w, err)
		return
	}

	_, err = o.DB.InsertOne(ctx, models.Officer{
		Name:        req.Name,
		BadgeID:     req.BadgeID,
		StationName: authCtx.Station,
		IsActive:    true,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now().UTC()),
	})
	if err != nil {
		config.ErrorStatus("failed to add officer", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{
		Message: fmt.Sprintf("Officer %s added successfully.", req.Name),
	})
}
