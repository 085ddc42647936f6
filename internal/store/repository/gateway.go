package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/stats"
	"github.com/fortuna/quadra/internal/store"
)

// Gateway adapts the repositories to the roster provider and persistence
// gateway used by the live session manager.
type Gateway struct {
	Teams         *TeamRepository
	Players       *PlayerRepository
	Matches       *MatchRepository
	Substitutions *SubstitutionRepository
}

// NewGateway wires every repository to db.
func NewGateway(db *store.Database) *Gateway {
	return &Gateway{
		Teams:         NewTeamRepository(db),
		Players:       NewPlayerRepository(db),
		Matches:       NewMatchRepository(db),
		Substitutions: NewSubstitutionRepository(db),
	}
}

// LoadMatch returns the fixture metadata for a session.
func (g *Gateway) LoadMatch(ctx context.Context, matchID string) (match.MatchInfo, error) {
	m, err := g.Matches.GetByID(ctx, matchID)
	if err != nil {
		return match.MatchInfo{}, err
	}
	return toMatchInfo(m), nil
}

// LoadRoster returns the active players of a team.
func (g *Gateway) LoadRoster(ctx context.Context, teamID string) ([]match.Player, error) {
	rows, err := g.Players.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster of team %s: %w", teamID, store.ErrNotFound)
	}
	players := make([]match.Player, 0, len(rows))
	for _, p := range rows {
		players = append(players, toMatchPlayer(p))
	}
	return players, nil
}

// SubstitutionFrequency returns how often each player has come on.
func (g *Gateway) SubstitutionFrequency(ctx context.Context, teamID string) (map[string]int, error) {
	return g.Substitutions.GetByTeam(ctx, teamID)
}

// SaveRecord persists a finished match.
func (g *Gateway) SaveRecord(ctx context.Context, rec stats.MatchRecord) error {
	row, err := toRecordRow(rec)
	if err != nil {
		return err
	}
	return g.Matches.SaveRecord(ctx, row)
}

// RecordSubstitutions credits every incoming player.
func (g *Gateway) RecordSubstitutions(ctx context.Context, teamID string, subs []match.SubstitutionRecord) error {
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.PlayerInID)
	}
	return g.Substitutions.Increment(ctx, teamID, ids)
}

func toMatchInfo(m *store.Match) match.MatchInfo {
	return match.MatchInfo{
		ID:          m.MatchID,
		TeamID:      m.TeamID,
		TeamName:    m.TeamName,
		Opponent:    m.Opponent,
		Competition: m.Competition,
		Date:        m.MatchDate,
	}
}

func toMatchPlayer(p *store.Player) match.Player {
	return match.Player{
		ID:           p.PlayerID,
		Name:         p.FullName,
		Nickname:     p.Nickname.String,
		JerseyNumber: p.JerseyNumber,
		Position:     p.Position,
		PhotoURL:     p.PhotoURL.String,
	}
}

func toRecordRow(rec stats.MatchRecord) (*store.MatchRecordRow, error) {
	row := &store.MatchRecordRow{
		MatchID:                  rec.ID,
		Result:                   string(rec.Result),
		GoalsFor:                 rec.GoalsFor,
		GoalsAgainst:             rec.GoalsAgainst,
		Lineup:                   append([]string{}, rec.Lineup...),
		PossessionSecondsWith:    rec.PossessionSecondsWith,
		PossessionSecondsWithout: rec.PossessionSecondsWithout,
		RecordedByUserID:         sql.NullString{String: rec.RecordedBy.ID, Valid: rec.RecordedBy.ID != ""},
		RecordedByName:           rec.RecordedBy.Name,
		FinishedAt:               rec.FinishedAt,
	}

	docs := []struct {
		dst *[]byte
		v   any
	}{
		{&row.TeamStats, rec.TeamStats},
		{&row.PlayerStats, nonNil(rec.PlayerStats)},
		{&row.EventLog, nonNil(rec.PostMatchEventLog)},
		{&row.Relationships, nonNil(rec.PlayerRelationships)},
		{&row.Substitutions, nonNil(rec.SubstitutionHistory)},
	}
	for _, d := range docs {
		b, err := json.Marshal(d.v)
		if err != nil {
			return nil, fmt.Errorf("encoding record of match %s: %w", rec.ID, err)
		}
		*d.dst = b
	}
	return row, nil
}

// nonNil keeps empty collections as [] rather than null in JSONB columns.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
