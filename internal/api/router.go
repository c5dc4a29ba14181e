package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

// Server exposes the Hub over HTTP: /events (SSE) and /status.
type Server struct {
	cfg    *config.EngineConfig
	hub    *Hub
	router chi.Router
}

// NewServer builds a Server backed by hub. cfg supplies the optional
// "api.key" setting read by apiKeyAuth.
func NewServer(cfg *config.EngineConfig, hub *Hub) *Server {
	s := &Server{cfg: cfg, hub: hub}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.apiKey() != "" {
		r.Use(s.apiKeyAuth)
	}

	r.Get("/status", s.handleStatus)
	r.Get("/events", s.handleEvents)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) apiKey() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.GetString("api.key")
}

// apiKeyAuth validates the X-API-Key header (or api_key query param)
// against the configured key, mirroring the teacher's optional API-key
// middleware.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := s.apiKey()
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		got := r.Header.Get("X-API-Key")
		if got == "" {
			got = r.URL.Query().Get("api_key")
		}
		if got != key {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
