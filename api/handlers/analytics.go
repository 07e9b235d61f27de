package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

// Analytics serves per-station aggregate views over the report store
type Analytics struct {
	RDB databases.ReportDatabase
}

// AnalyticsHandler groups the caller's station reports by category and
// returns counts sorted descending. Computed fresh per request, no caching.
func (a Analytics) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"police_station": authCtx.Station}},
		{"$group": bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"count": -1}},
	}

	counts, err := a.RDB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("could not generate analytics data", http.StatusInternalServerError, w, err)
		return
	}
	if len(counts) == 0 {
		counts = []models.CategoryCount{}
	}

	b, err := json.Marshal(counts)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
