package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/api/scheduler"
	"github.com/smartfir/fir-filing-api/assistant"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
	"github.com/smartfir/fir-filing-api/provision"
	"github.com/smartfir/fir-filing-api/storage"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router      *mux.Router
	Config      config.Config
	dbHelper    databases.DatabaseHelper
	uploader    storage.Uploader
	transcripts *assistant.TranscriptStore
	bridge      *assistant.Bridge
	feed        *Feed
	scheduler   *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	citizen := Citizen{DB: databases.NewCitizenDatabase(a.dbHelper), Transcripts: a.transcripts}
	admin := Admin{DB: databases.NewAdminDatabase(a.dbHelper)}
	report := Report{
		RDB:      databases.NewReportDatabase(a.dbHelper),
		ODB:      databases.NewOfficerDatabase(a.dbHelper),
		CDB:      databases.NewCitizenDatabase(a.dbHelper),
		Uploader: a.uploader,
		Feed:     a.feed,
	}
	officer := Officer{DB: databases.NewOfficerDatabase(a.dbHelper)}
	station := Station{DB: databases.NewAdminDatabase(a.dbHelper)}
	analytics := Analytics{RDB: databases.NewReportDatabase(a.dbHelper)}
	chatbot := Chatbot{Bridge: a.bridge}
	cloudinaryHandler := CloudinaryHandler{
		UploadPreset: a.Config.UploadPreset,
		APISecret:    a.Config.UploadSecret,
	}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/register", http.HandlerFunc(citizen.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/login", http.HandlerFunc(citizen.LoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/logout", api.Middleware(http.HandlerFunc(citizen.LogoutHandler))).Methods("POST")

	apiCreate.Handle("/stations", http.HandlerFunc(station.StationDirectoryHandler)).Methods("GET")

	apiCreate.Handle("/firs", api.CitizenOnly(http.HandlerFunc(report.SubmitReportHandler))).Methods("POST")
	apiCreate.Handle("/firs", api.CitizenOnly(http.HandlerFunc(report.ReportsByCitizenHandler))).Methods("GET")
	apiCreate.Handle("/firs/{fir_id}", api.Middleware(http.HandlerFunc(report.ReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/firs/{fir_id}", api.CitizenOnly(http.HandlerFunc(report.CancelReportHandler))).Methods("DELETE")
	apiCreate.Handle("/firs/{fir_id}/timeline", api.Middleware(http.HandlerFunc(report.ReportTimelineHandler))).Methods("GET")

	apiCreate.Handle("/admin/firs", api.AdminOnly(http.HandlerFunc(report.ReportsByStationHandler))).Methods("GET")
	apiCreate.Handle("/admin/firs/{fir_id}/status", api.AdminOnly(http.HandlerFunc(report.UpdateStatusHandler))).Methods("PUT")
	apiCreate.Handle("/admin/firs/{fir_id}/assign", api.AdminOnly(http.HandlerFunc(report.AssignOfficerHandler))).Methods("POST")
	apiCreate.Handle("/admin/officers", api.AdminOnly(http.HandlerFunc(officer.OfficersByStationHandler))).Methods("GET")
	apiCreate.Handle("/admin/officers", api.AdminOnly(http.HandlerFunc(officer.AddOfficerHandler))).Methods("POST")
	apiCreate.Handle("/admin/analytics", api.AdminOnly(http.HandlerFunc(analytics.AnalyticsHandler))).Methods("GET")
	apiCreate.Handle("/admin/feed", api.AdminOnly(http.HandlerFunc(a.feed.SubscribeHandler))).Methods("GET")

	apiCreate.Handle("/chatbot/ask", api.Middleware(http.HandlerFunc(chatbot.AskHandler))).Methods("POST")
	apiCreate.Handle("/chatbot/history", api.Middleware(http.HandlerFunc(chatbot.HistoryHandler))).Methods("GET")
	apiCreate.Handle("/chatbot/clear", api.Middleware(http.HandlerFunc(chatbot.ClearHandler))).Methods("POST")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("fir-filing-api has connected to the database")

	api.SetupSessions(a.Config.JWTSecret)

	// reconcile admin accounts and officer rosters before serving
	reconciler := provision.New(
		databases.NewAdminDatabase(a.dbHelper),
		databases.NewOfficerDatabase(a.dbHelper),
	)
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()
	if err := reconciler.Run(ctx, a.Config.AdminSeeds); err != nil {
		zap.S().With(err).Error("startup reconciliation failed")
		return err
	}

	a.uploader, err = storage.New()
	if err != nil {
		zap.S().With(err).Error("failed to create storage uploader")
		return err
	}

	a.transcripts, err = assistant.NewTranscriptStore(a.Config.RedisURL)
	if err != nil {
		zap.S().With(err).Error("failed to connect to redis")
		return err
	}
	a.bridge = assistant.New(a.Config.AssistantURL, a.Config.AssistantKey, a.transcripts)

	a.feed = NewFeed()

	a.scheduler = scheduler.NewScheduler(databases.NewReportDatabase(a.dbHelper), a.Config.EscalateAfter)
	a.scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
