package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/quadra/internal/identity"
	"github.com/fortuna/quadra/internal/live"
	"github.com/fortuna/quadra/internal/match"
)

// Authenticator resolves the operator of a request.
type Authenticator interface {
	FromRequest(r *http.Request) (identity.User, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	manager   *live.Manager
	directory Directory
	auth      Authenticator
	health    func(ctx context.Context) error
	logger    *slog.Logger
}

// NewHandler creates a new handler. health may be nil.
func NewHandler(manager *live.Manager, directory Directory, auth Authenticator, health func(ctx context.Context) error, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: manager, directory: directory, auth: auth, health: health, logger: logger}
}

// AuthMiddleware requires a valid bearer token on every API route.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.auth.FromRequest(r)
		if err != nil {
			fail(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "Unhealthy", err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "quadra",
		"sessions": len(h.manager.Sessions()),
	})
}

// ListSessions returns the ids of the active sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"sessions": h.manager.Sessions()})
}

// OpenSession opens or resumes the capture session of a match
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req live.OpenRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.manager.Open(r.Context(), req)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetSession returns the render model of a session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.View(mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type lineupRequest struct {
	PlayerIDs  []string          `json:"playerIds"`
	Possession *match.Possession `json:"possession"`
}

// ConfirmLineup locks the starting five and the kickoff possession
func (h *Handler) ConfirmLineup(w http.ResponseWriter, r *http.Request) {
	var req lineupRequest
	if !decode(w, r, &req) {
		return
	}
	h.update(w, r, func(s *match.Session) error {
		return s.ConfirmLineup(req.PlayerIDs, req.Possession)
	})
}

var clockOps = map[string]func(*match.Session) error{
	"start":         (*match.Session).Start,
	"pause":         (*match.Session).Pause,
	"resume":        (*match.Session).Resume,
	"end-period":    (*match.Session).EndPeriod,
	"second-period": (*match.Session).StartSecondPeriod,
	"end":           (*match.Session).EndMatch,
}

// ClockOp drives the match clock
func (h *Handler) ClockOp(w http.ResponseWriter, r *http.Request) {
	op, ok := clockOps[mux.Vars(r)["op"]]
	if !ok {
		fail(w, fmt.Errorf("%w: unknown clock operation %q", errBadRequest, mux.Vars(r)["op"]))
		return
	}
	h.update(w, r, op)
}

type dispatchResponse struct {
	Event *match.Event `json:"event,omitempty"`
	View  match.View   `json:"view"`
}

// Dispatch feeds one capture input to the session
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var spec match.InputSpec
	if !decode(w, r, &spec) {
		return
	}
	in, err := spec.Input()
	if err != nil {
		fail(w, err)
		return
	}
	ev, view, err := h.manager.Dispatch(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dispatchResponse{Event: ev, View: view})
}

type manualTimeRequest struct {
	Time   string        `json:"time"`
	Period *match.Period `json:"period,omitempty"`
}

// SetManualTime sets the time (and optionally the period) of the next post-match event
func (h *Handler) SetManualTime(w http.ResponseWriter, r *http.Request) {
	var req manualTimeRequest
	if !decode(w, r, &req) {
		return
	}
	h.update(w, r, func(s *match.Session) error {
		if req.Period != nil {
			if err := s.SetManualPeriod(*req.Period); err != nil {
				return err
			}
		}
		if req.Time == "" {
			return nil
		}
		return s.SetManualTime(req.Time)
	})
}

type substitutionRequest struct {
	PlayerOutID string `json:"playerOutId"`
	PlayerInID  string `json:"playerInId"`
}

// Substitute swaps an on-court player for a bench player
func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	var req substitutionRequest
	if !decode(w, r, &req) {
		return
	}
	h.update(w, r, func(s *match.Session) error {
		return s.Substitute(req.PlayerOutID, req.PlayerInID)
	})
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

// FillExpulsion brings a bench player into an unlocked expulsion slot
func (h *Handler) FillExpulsion(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}
	h.update(w, r, func(s *match.Session) error {
		return s.FillExpulsion(req.PlayerID)
	})
}

// SetGoalkeeper designates the on-court goalkeeper
func (h *Handler) SetGoalkeeper(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}
	h.update(w, r, func(s *match.Session) error {
		return s.SetGoalkeeper(req.PlayerID)
	})
}

// TogglePossession flips the possession state
func (h *Handler) TogglePossession(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, (*match.Session).TogglePossession)
}

// GetBench returns the bench ranked by substitution frequency
func (h *Handler) GetBench(w http.ResponseWriter, r *http.Request) {
	bench, err := h.manager.BenchCandidates(mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"bench": bench})
}

// CorrectEvent edits a logged event
func (h *Handler) CorrectEvent(w http.ResponseWriter, r *http.Request) {
	var c match.Correction
	if !decode(w, r, &c) {
		return
	}
	eventID := mux.Vars(r)["eventID"]
	ev, view, err := h.manager.Apply(r.Context(), mux.Vars(r)["id"], func(s *match.Session) (*match.Event, error) {
		return s.CorrectEvent(eventID, c)
	})
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dispatchResponse{Event: ev, View: view})
}

// DeleteEvent removes a logged event
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventID"]
	h.update(w, r, func(s *match.Session) error {
		return s.DeleteEvent(eventID)
	})
}

// GetStats aggregates the current event log
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.manager.Stats(mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Finish ends the match and hands the record off for persistence
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		fail(w, identity.ErrMissingToken)
		return
	}
	id := mux.Vars(r)["id"]
	rec, err := h.manager.Finish(r.Context(), id, user.Recorder())
	if err != nil {
		h.logger.Error("finish failed", "match_id", id, "error", err)
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, op func(*match.Session) error) {
	view, err := h.manager.Update(r.Context(), mux.Vars(r)["id"], op)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		fail(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
