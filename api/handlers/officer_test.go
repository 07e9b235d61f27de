package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartfir/fir-filing-api/api/handlers"
	"github.com/smartfir/fir-filing-api/models"
)

func TestOfficer_OfficersByStationHandler(t *testing.T) {
	odb := &MockOfficerDatabase{}
	odb.On("Find", mock.Anything, bson.M{"station_name": "Tosham Police Station, Bhiwani"}).
		Return([]models.Officer{
			{Name: "Tosham Officer 1", BadgeID: "TOSHAM01", StationName: "Tosham Police Station, Bhiwani", IsActive: true},
			{Name: "Tosham Officer 2", BadgeID: "TOSHAM02", StationName: "Tosham Police Station, Bhiwani", IsActive: false},
		}, nil)

	req := adminRequest(t, "GET", "/api/v1/admin/officers", nil, "Tosham Police Station, Bhiwani")
	rr := httptest.NewRecorder()
	o := handlers.Officer{DB: odb}
	http.HandlerFunc(o.OfficersByStationHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got []models.Officer
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	assert.Len(t, got, 2)
	odb.AssertExpectations(t)
}

func TestOfficer_OfficersByStationHandlerActiveFilter(t *testing.T) {
	odb := &MockOfficerDatabase{}
	odb.On("Find", mock.Anything, bson.M{
		"station_name": "Tosham Police Station, Bhiwani",
		"is_active":    true,
	}).Return([]models.Officer{}, nil)

	req := adminRequest(t, "GET", "/api/v1/admin/officers?active=true", nil, "Tosham Police Station, Bhiwani")
	rr := httptest.NewRecorder()
	o := handlers.Officer{DB: odb}
	http.HandlerFunc(o.OfficersByStationHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	odb.AssertExpectations(t)
}

func TestOfficer_AddOfficerHandler(t *testing.T) {
	odb := &MockOfficerDatabase{}
	odb.On("FindOne", mock.Anything, bson.M{
		"badge_id":     "TOSHAM09",
		"station_name": "Tosham Police Station, Bhiwani",
	}).Return(nil, mongo.ErrNoDocuments)
	odb.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		officer, ok := doc.(models.Officer)
		return ok &&
			officer.BadgeID == "TOSHAM09" &&
			officer.StationName == "Tosham Police Station, Bhiwani" &&
			officer.IsActive
	})).Return("inserted-id", nil)

	body := bytes.NewBufferString(`{"name": "New Recruit", "badge_id": "TOSHAM09"}`)
	req := adminRequest(t, "POST", "/api/v1/admin/officers", body, "Tosham Police Station, Bhiwani")

	rr := httptest.NewRecorder()
	o := handlers.Officer{DB: odb}
	http.HandlerFunc(o.AddOfficerHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusCreated {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusCreated)
	}
	assert.Contains(t, rr.Body.String(), "Officer New Recruit added successfully.")
	odb.AssertExpectations(t)
}

func TestOfficer_AddOfficerHandlerDuplicateBadge(t *testing.T) {
	odb := &MockOfficerDatabase{}
	odb.On("FindOne", mock.Anything, bson.M{
		"badge_id":     "TOSHAM01",
		"station_name": "Tosham Police Station, Bhiwani",
	}).Return(&models.Officer{BadgeID: "TOSHAM01"}, nil)

	body := bytes.NewBufferString(`{"name": "Clone", "badge_id": "TOSHAM01"}`)
	req := adminRequest(t, "POST", "/api/v1/admin/officers", body, "Tosham Police Station, Bhiwani")

	rr := httptest.NewRecorder()
	o := handlers.Officer{DB: odb}
	http.HandlerFunc(o.AddOfficerHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusConflict {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusConflict)
	}
	assert.Contains(t, rr.Body.String(), "officer already exists")
	odb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestOfficer_AddOfficerHandlerMissingBadge(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "No Badge"}`)
	req := adminRequest(t, "POST", "/api/v1/admin/officers", body, "Tosham Police Station, Bhiwani")

	rr := httptest.NewRecorder()
	o := handlers.Officer{DB: &MockOfficerDatabase{}}
	http.HandlerFunc(o.AddOfficerHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	assert.Contains(t, rr.Body.String(), "officer name and badge id are required")
}
