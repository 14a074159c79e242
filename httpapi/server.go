// Package httpapi exposes the engine over HTTP: registration, the session
// lifecycle endpoints, the authenticated user endpoint, and the operational
// endpoints (health, metrics). Every route sits behind the access guard.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/avykov/authgate"
	"github.com/avykov/authgate/middleware"
)

// Server wires the engine's operations to routes. Construct with [NewServer],
// then mount [Server.Handler].
type Server struct {
	engine *authgate.Engine
	cfg    authgate.Config
	log    zerolog.Logger
	reg    *prometheus.Registry
}

// NewServer builds the HTTP surface over engine. reg may be nil, in which case
// the /metrics endpoint serves an empty registry.
func NewServer(engine *authgate.Engine, log zerolog.Logger, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{
		engine: engine,
		cfg:    engine.Config(),
		log:    log,
		reg:    reg,
	}
}

// Handler returns the full route tree behind the access guard and the request
// logger. Route sensitivity (public, entry, API) comes from the engine
// configuration, not from the mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("GET /users/me", s.handleMe)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	guard := middleware.New(s.engine, s.cfg).WithLogger(s.log)
	return s.logRequests(guard.Wrap(mux))
}

/*
====================================
REQUEST LOGGING
====================================
*/

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

/*
====================================
RESPONSE HELPERS
====================================
*/

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeDetail mirrors the error envelope the guard uses, so clients see one
// shape for every failure.
func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
