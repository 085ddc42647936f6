package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, logger *slog.Logger) *Server {
	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      NewRouter(handler, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// NewRouter builds the route table wrapped in recovery, logging and CORS.
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware)

	// Sessions
	api.HandleFunc("/sessions", handler.ListSessions).Methods("GET")
	api.HandleFunc("/sessions", handler.OpenSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", handler.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/lineup", handler.ConfirmLineup).Methods("POST")
	api.HandleFunc("/sessions/{id}/clock/{op}", handler.ClockOp).Methods("POST")
	api.HandleFunc("/sessions/{id}/inputs", handler.Dispatch).Methods("POST")
	api.HandleFunc("/sessions/{id}/manual-time", handler.SetManualTime).Methods("POST")

	// Lineup
	api.HandleFunc("/sessions/{id}/substitutions", handler.Substitute).Methods("POST")
	api.HandleFunc("/sessions/{id}/expulsion/fill", handler.FillExpulsion).Methods("POST")
	api.HandleFunc("/sessions/{id}/goalkeeper", handler.SetGoalkeeper).Methods("POST")
	api.HandleFunc("/sessions/{id}/possession/toggle", handler.TogglePossession).Methods("POST")
	api.HandleFunc("/sessions/{id}/bench", handler.GetBench).Methods("GET")

	// Event log
	api.HandleFunc("/sessions/{id}/events/{eventID}", handler.CorrectEvent).Methods("PATCH")
	api.HandleFunc("/sessions/{id}/events/{eventID}", handler.DeleteEvent).Methods("DELETE")

	// Stats and hand-off
	api.HandleFunc("/sessions/{id}/stats", handler.GetStats).Methods("GET")
	api.HandleFunc("/sessions/{id}/finish", handler.Finish).Methods("POST")

	// Teams, players and stored records
	api.HandleFunc("/teams", handler.ListTeams).Methods("GET")
	api.HandleFunc("/teams/{teamID}", handler.GetTeamRoster).Methods("GET")
	api.HandleFunc("/teams/{teamID}/matches", handler.GetTeamMatches).Methods("GET")
	api.HandleFunc("/players/{playerID}", handler.GetPlayer).Methods("GET")
	api.HandleFunc("/matches/{matchID}/record", handler.GetMatchRecord).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(router)
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
