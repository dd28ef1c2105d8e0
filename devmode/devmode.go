// Package devmode is a local stand-in for the cofi backend. It serves the
// whole endpoint catalogue over seeded in-memory fixtures so the client,
// the CLI and the explore screen can be driven without a real server.
// It is not a reimplementation of the backend's business rules.
package devmode

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Seeded credentials accepted by the stub's login.
const (
	DevEmail    = "dev@cofi.local"
	DevUsername = "dev"
	DevPassword = "cofi-dev"
)

// APIPrefix is where the catalogue is mounted.
const APIPrefix = "/api/v1"

// Config configures the stub backend.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	Logger   *zerolog.Logger
}

// Server is the stub backend.
type Server struct {
	router *mux.Router
	store  *store
	auth   *authenticator
	logger zerolog.Logger
}

// NewServer builds the stub with freshly seeded fixtures.
func NewServer(cfg Config) (*Server, error) {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	st, err := seed()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:  st,
		auth:   newAuthenticator(cfg.Secret, cfg.TokenTTL),
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware(s.logger))
	router.Use(metricsMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(APIPrefix).Subrouter()

	// Public endpoints
	api.HandleFunc("/users/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/users/reset", s.handleResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/coffees", s.handleCoffees).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireToken)

	// Users. Literal paths are registered before {id} routes.
	authed.HandleFunc("/users/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/users/register-device", s.handleRegisterDevice).Methods(http.MethodPost)
	authed.HandleFunc("/users/me", s.handleUpdateProfile).Methods(http.MethodPatch)
	authed.HandleFunc("/users/search", s.handleSearchUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users/friends-requests", s.handleFriendRequests).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/notifications", s.handleNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/notifications/{id}", s.handleNotification).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/profile", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/avatar", s.handleAvatar).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/list-friends", s.handleListFriends).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/add-friend", s.handleAddFriend).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/unfriend", s.handleUnfriend).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/block", s.handleBlock).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/unblock", s.handleUnblock).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/check-friendship", s.handleCheckFriendship).Methods(http.MethodGet)
	authed.HandleFunc("/users/{userId}/currentAlarm", s.handleCurrentAlarm).Methods(http.MethodGet)

	// Alarms and voice notes
	authed.HandleFunc("/alarms", s.handleSetAlarm).Methods(http.MethodPost)
	authed.HandleFunc("/alarms/friends-alarms", s.handleFriendsAlarms).Methods(http.MethodGet)
	authed.HandleFunc("/alarms/send-voice-note", s.handleSendVoiceNote).Methods(http.MethodPost)
	authed.HandleFunc("/alarms/{id}", s.handleGetAlarm).Methods(http.MethodGet)
	authed.HandleFunc("/alarms/{id}", s.handleUpdateAlarm).Methods(http.MethodPatch)
	authed.HandleFunc("/alarms/{id}", s.handleRemoveAlarm).Methods(http.MethodDelete)
	authed.HandleFunc("/alarms/{id}/turn-off", s.handleTurnOffAlarm).Methods(http.MethodPost)
	authed.HandleFunc("/alarms/{id}/calc-signature", s.handleAlarmSignature).Methods(http.MethodGet)
	authed.HandleFunc("/alarms/{alarmId}/voicenotes", s.handleVoiceNotes).Methods(http.MethodGet)
	authed.HandleFunc("/alarms/{alarmId}/voicenotes/{voiceNoteId}", s.handleVoiceNote).Methods(http.MethodGet)
	authed.HandleFunc("/alarms/{alarmId}/voicenotes/{voiceNoteId}/mark-as-listened", s.handleMarkListened).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "Shared class \"\" has no method handling "+r.Method+" "+r.URL.Path)
	})
	return router
}
