package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
)

// Station serves the public directory of police stations
type Station struct {
	DB databases.AdminDatabase
}

// StationEntry is one directory row
type StationEntry struct {
	Name string `json:"name"`
}

// StationDirectoryHandler returns all station names grouped by district. The
// station naming convention is "<station>, <district>"; entries that don't
// follow it are skipped.
func (s Station) StationDirectoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admins, err := s.DB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("could not fetch police station data", http.StatusInternalServerError, w, err)
		return
	}

	byDistrict := map[string][]StationEntry{}
	for _, admin := range admins {
		parts := strings.Split(admin.StationName, ", ")
		if len(parts) != 2 {
			continue
		}
		district := parts[1]
		byDistrict[district] = append(byDistrict[district], StationEntry{Name: admin.StationName})
	}

	b, err := json.Marshal(byDistrict)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
