// Package api serves the gameplan HTTP API and the live editing websocket.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/session"
	"github.com/xtding233/gameplan-backend/internal/store"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

const (
	// NamingHeader selects legacy pass field names for request and response records.
	NamingHeader = "X-Gameplan-Naming"
	namingLegacy = "legacy"

	maxBodyBytes = 1 << 20
	saveTimeout  = 10 * time.Second
)

// Store is the persistence the API reads and writes.
type Store interface {
	GetGameplan(ctx context.Context, teamID int) (*gameplan.Gameplan, error)
	SaveGameplan(ctx context.Context, g *gameplan.Gameplan) error
	ListTeams(ctx context.Context) ([]store.TeamSummary, error)
	Ping(ctx context.Context) error
}

// Catalogs returns the active scheme catalog.
type Catalogs interface {
	Catalog() *scheme.Catalog
}

// Options configures a Server.
type Options struct {
	Log       *logrus.Entry
	Catalogs  Catalogs
	Validator *validation.Validator
	Calc      *distribution.Calculator
	Store     Store
	Sessions  *session.Registry
	CanModify bool
	MCP       http.Handler // mounted at /mcp when set
}

type Server struct {
	log       *logrus.Entry
	catalogs  Catalogs
	validator *validation.Validator
	calc      *distribution.Calculator
	store     Store
	sessions  *session.Registry
	canModify bool
	mcp       http.Handler
	upgrader  websocket.Upgrader
}

func New(o Options) *Server {
	return &Server{
		log:       o.Log,
		catalogs:  o.Catalogs,
		validator: o.Validator,
		calc:      o.Calc,
		store:     o.Store,
		sessions:  o.Sessions,
		canModify: o.CanModify,
		mcp:       o.MCP,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes returns the router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/schemes", s.handleSchemes).Methods(http.MethodGet)
	api.HandleFunc("/schemes/{name}", s.handleScheme).Methods(http.MethodGet)
	api.HandleFunc("/defensive-schemes", s.handleDefensiveSchemes).Methods(http.MethodGet)
	api.HandleFunc("/gameplans", s.handleListGameplans).Methods(http.MethodGet)
	api.HandleFunc("/gameplans/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/gameplans/distributions", s.handleDistributions).Methods(http.MethodPost)
	api.HandleFunc("/gameplans/{teamID:[0-9]+}", s.handleGetGameplan).Methods(http.MethodGet)
	api.HandleFunc("/gameplans/{teamID:[0-9]+}", s.handlePutGameplan).Methods(http.MethodPut)

	r.HandleFunc("/ws/gameplans/{teamID:[0-9]+}", s.handleWS).Methods(http.MethodGet)
	if s.mcp != nil {
		r.PathPrefix("/mcp").Handler(s.mcp)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.WithError(err).Warn("health check failed")
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is needed by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Flush is needed by streamed MCP responses.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func legacyNaming(r *http.Request) bool {
	v := r.Header.Get(NamingHeader)
	if v == "" {
		v = r.URL.Query().Get("naming")
	}
	return strings.EqualFold(strings.TrimSpace(v), namingLegacy)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}
