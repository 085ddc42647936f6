package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/fortuna/quadra/internal/identity"
	"github.com/fortuna/quadra/internal/match"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ViewSource returns the current view of a session.
type ViewSource interface {
	View(sessionID string) (match.View, error)
}

// Authenticator resolves the operator of an upgrade request.
type Authenticator interface {
	FromRequest(r *http.Request) (identity.User, error)
}

// Server represents the WebSocket server
type Server struct {
	server *http.Server
	hub    *Hub
	views  ViewSource
	auth   Authenticator
	logger *slog.Logger
}

// NewServer creates a new WebSocket server. auth may be nil to accept anonymous watchers.
func NewServer(hub *Hub, views ViewSource, auth Authenticator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{hub: hub, views: views, auth: auth, logger: logger}
}

// Handler returns the websocket routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws/sessions/{id}", s.handleSession)
	router.HandleFunc("/ws/health", s.handleHealth)
	return router
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.Handler(),
	}
	return s.server.ListenAndServe()
}

// handleSession upgrades a watcher of one session and sends it the current view.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.auth != nil {
		// Browsers cannot set headers on the upgrade request.
		if token := r.URL.Query().Get("token"); token != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		if _, err := s.auth.FromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	id := mux.Vars(r)["id"]
	view, err := s.views.View(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "session_id", id, "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
		room: id,
	}
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	s.hub.BroadcastToRoom(id, Message{Type: MessageView, SessionID: id, Payload: view})
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
