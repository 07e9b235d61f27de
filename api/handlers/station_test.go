package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartfir/fir-filing-api/api/handlers"
	"github.com/smartfir/fir-filing-api/models"
)

func TestStation_StationDirectoryHandler(t *testing.T) {
	adb := &MockAdminDatabase{}
	adb.On("Find", mock.Anything, bson.M{}).Return([]models.Admin{
		{AdminID: "PSTOSHAM01", StationName: "Tosham Police Station, Bhiwani"},
		{AdminID: "PSBHIWANI01", StationName: "Bhiwani City Police Station, Bhiwani"},
		{AdminID: "PSHISAR01", StationName: "Hisar Sadar Police Station, Hisar"},
		{AdminID: "PSBROKEN01", StationName: "Malformed Station Name"},
	}, nil)

	req, err := http.NewRequest("GET", "/api/v1/stations", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	s := handlers.Station{DB: adb}
	http.HandlerFunc(s.StationDirectoryHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got map[string][]handlers.StationEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	assert.Len(t, got, 2)
	assert.Len(t, got["Bhiwani"], 2)
	assert.Len(t, got["Hisar"], 1)
	assert.Equal(t, "Hisar Sadar Police Station, Hisar", got["Hisar"][0].Name)
}

func TestStation_StationDirectoryHandlerDatabaseError(t *testing.T) {
	adb := &MockAdminDatabase{}
	adb.On("Find", mock.Anything, bson.M{}).Return(nil, errors.New("mocked-error"))

	req, err := http.NewRequest("GET", "/api/v1/stations", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	s := handlers.Station{DB: adb}
	http.HandlerFunc(s.StationDirectoryHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}
	assert.Contains(t, rr.Body.String(), "could not fetch police station data")
}
