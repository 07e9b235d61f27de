package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
)

// Roles resolved by the session layer
const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// AuthContext is the verified identity and scope of the caller, built once
// per request from the session token and threaded through the request context.
type AuthContext struct {
	Role      string
	Username  string // set for citizens
	AdminID   string // set for admins
	Station   string // set for admins, scopes every station operation
	SessionID string // keys session-scoped state such as chat transcripts
}

type contextKey int

const authContextKey contextKey = iota

var authenticator auth.Authenticator
var sessionCache store.Cache
var jwtSecret []byte

// SetupSessions initializes the citizen session cache and the admin token
// secret. Citizen sessions live in a go-guardian bearer cache so logout can
// revoke them; admin sessions are stateless HS256 tokens.
func SetupSessions(secret string) {
	jwtSecret = []byte(secret)
	authenticator = auth.New()
	sessionCache = store.NewFIFO(context.Background(), time.Hour*24)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, sessionCache)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// NewCitizenSession mints a bearer token for a verified citizen and caches it
func NewCitizenSession(r *http.Request, username string) string {
	token := uuid.New().String()
	authUser := auth.NewDefaultUser(username, username, nil, nil)
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, authUser, r)
	return token
}

// NewAdminSession signs an HS256 token scoped to the administrator's station
func NewAdminSession(adminID, station string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"sub":     adminID,
		"station": station,
		"scope":   RoleAdmin,
		"jti":     uuid.New().String(),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// RevokeSession drops the caller's citizen session token from the cache.
// Admin tokens are stateless and simply expire; there is nothing to revoke.
func RevokeSession(r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		return
	}
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, token, r)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// resolve authenticates the request as either a cached citizen session or a
// signed admin token and returns the caller's AuthContext
func resolve(r *http.Request) (AuthContext, error) {
	token := bearerToken(r)
	if token == "" {
		return AuthContext{}, errors.New("missing bearer token")
	}

	if user, err := authenticator.Authenticate(r); err == nil {
		return AuthContext{
			Role:      RoleCitizen,
			Username:  user.UserName(),
			SessionID: token,
		}, nil
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return AuthContext{}, err
	}
	if scope, _ := claims["scope"].(string); scope != RoleAdmin {
		return AuthContext{}, errors.New("token is not admin scoped")
	}

	adminID, _ := claims["sub"].(string)
	station, _ := claims["station"].(string)
	sessionID, _ := claims["jti"].(string)
	return AuthContext{
		Role:      RoleAdmin,
		AdminID:   adminID,
		Station:   station,
		SessionID: sessionID,
	}, nil
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	zap.S().Errorw("unauthorized",
		"url", r.URL)
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "unauthorized"}`))
}

// Middleware admits any authenticated identity
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		authCtx, err := resolve(r)
		if err != nil {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
	})
}

// CitizenOnly admits only authenticated citizens
func CitizenOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		authCtx, err := resolve(r)
		if err != nil || authCtx.Role != RoleCitizen {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
	})
}

// AdminOnly admits only authenticated station administrators
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		authCtx, err := resolve(r)
		if err != nil || authCtx.Role != RoleAdmin || authCtx.Station == "" {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
	})
}

// WithAuthContext attaches the caller identity to ctx
func WithAuthContext(ctx context.Context, authCtx AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// AuthFromContext returns the caller identity resolved by the middleware
func AuthFromContext(ctx context.Context) (AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(AuthContext)
	return authCtx, ok
}
