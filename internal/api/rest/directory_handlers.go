package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/store/repository"
)

// Directory serves the stored teams, players, fixtures and finished records.
type Directory interface {
	ListTeams(ctx context.Context) ([]repository.TeamInfo, error)
	TeamRoster(ctx context.Context, teamID string) (*repository.Roster, error)
	TeamFixtures(ctx context.Context, teamID string, limit int) ([]repository.Fixture, error)
	PlayerProfile(ctx context.Context, playerID string) (match.Player, error)
	FinishedRecord(ctx context.Context, matchID string) (*repository.StoredRecord, error)
}

// ListTeams returns the active teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.directory.ListTeams(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// GetTeamRoster returns a team with its active players
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.directory.TeamRoster(r.Context(), mux.Vars(r)["teamID"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

// GetTeamMatches returns the most recent fixtures of a team
func (h *Handler) GetTeamMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(w, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		limit = n
	}
	teamID := mux.Vars(r)["teamID"]
	fixtures, err := h.directory.TeamFixtures(r.Context(), teamID, limit)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teamId":  teamID,
		"matches": fixtures,
		"count":   len(fixtures),
	})
}

// GetPlayer returns one player
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.directory.PlayerProfile(r.Context(), mux.Vars(r)["playerID"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// GetMatchRecord returns the stored record of a finished match
func (h *Handler) GetMatchRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.directory.FinishedRecord(r.Context(), mux.Vars(r)["matchID"])
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
