package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"draftsmith/internal/assistant"
	"draftsmith/internal/session"
	"draftsmith/internal/storage"
)

// Server represents the API server.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	sessions *session.Manager
	provider assistant.Provider
	store    storage.TranscriptStore // nil disables transcript persistence
}

// NewServer creates a new API server.
func NewServer(addr string, provider assistant.Provider, store storage.TranscriptStore) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		sessions: session.NewManager(),
		provider: provider,
		store:    store,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: contract generation streams can run for minutes.
	}

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Health check
	s.router.Get("/health", s.handleHealth)

	// Contract generation and passthrough query
	s.router.Post("/api/contracts", s.handleCreateContract)
	s.router.Post("/api/query", s.handleQuery)

	// Session routes
	s.router.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/selection", s.handleSelection)
		r.Post("/span", s.handleSpan)
		r.Post("/edit", s.handleBeginEdit)
		r.Post("/edit/draft", s.handleUpdateDraft)
		r.Post("/edit/save", s.handleSaveEdit)
		r.Post("/edit/cancel", s.handleCancelEdit)
		r.Post("/chat", s.handleChat)
		r.Get("/transcript", s.handleTranscript)
		r.Get("/export", s.handleExport)
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Error writes an error response.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := Response{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := Response{
		Success: true,
		Data:    data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
