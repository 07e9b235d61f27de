package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL           string
	DatabaseName  string
	RedisURL      string
	BaseURL       string
	Port          string
	JWTSecret     string
	AssistantKey  string
	AssistantURL  string
	UploadPreset  string
	UploadSecret  string
	EscalateAfter int // days a report may sit in Pending before escalation
	AdminSeeds    []AdminSeed
}

// AdminSeed is one administrator record read from the environment; the env
// file is the authoritative source for admin accounts and station rosters
type AdminSeed struct {
	AdminID  string
	Password string
	Station  string
}

// New sets up all config related services
func New() *Config {

	// load .env if present, real env vars win otherwise
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	escalateAfter, err := strconv.Atoi(os.Getenv("ESCALATE_AFTER_DAYS"))
	if err != nil || escalateAfter <= 0 {
		escalateAfter = 7
	}

	return &Config{
		URL:           os.Getenv("DB_URI"),
		DatabaseName:  os.Getenv("DB_NAME"),
		RedisURL:      os.Getenv("REDIS_URL"),
		BaseURL:       os.Getenv("BASE_URL"),
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AssistantKey:  os.Getenv("ASSISTANT_API_KEY"),
		AssistantURL:  os.Getenv("ASSISTANT_API_URL"),
		UploadPreset:  os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		UploadSecret:  os.Getenv("CLOUDINARY_API_SECRET"),
		EscalateAfter: escalateAfter,
		AdminSeeds:    ReadAdminSeeds(),
	}
}

// ReadAdminSeeds parses ADMIN_COUNT and the ADMIN_<i>_* triples. Records with
// missing fields are skipped with a warning so a partial seed never becomes a
// partial account.
func ReadAdminSeeds() []AdminSeed {
	count, err := strconv.Atoi(os.Getenv("ADMIN_COUNT"))
	if err != nil || count <= 0 {
		zap.S().Warn("ADMIN_COUNT not set or zero, no admins will be provisioned")
		return nil
	}

	var seeds []AdminSeed
	for i := 1; i <= count; i++ {
		seed := AdminSeed{
			AdminID:  os.Getenv(fmt.Sprintf("ADMIN_%d_ID", i)),
			Password: os.Getenv(fmt.Sprintf("ADMIN_%d_PASS", i)),
			Station:  os.Getenv(fmt.Sprintf("ADMIN_%d_STATION", i)),
		}
		if seed.AdminID == "" || seed.Password == "" || seed.Station == "" {
			zap.S().Warnf("missing full details for ADMIN_%d, skipping this record", i)
			continue
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
