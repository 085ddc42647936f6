package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/store"
)

// DefaultFixtureLimit caps fixture listings when no limit is given.
const DefaultFixtureLimit = 20

// TeamInfo is the API shape of a team.
type TeamInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	Category  string `json:"category,omitempty"`
	LogoURL   string `json:"logoUrl,omitempty"`
}

// Roster is a team with its active players.
type Roster struct {
	Team    TeamInfo       `json:"team"`
	Players []match.Player `json:"players"`
}

// Fixture is a match of the team with its status and, once finished, its score.
type Fixture struct {
	match.MatchInfo
	Venue        string `json:"venue,omitempty"`
	Status       string `json:"status"`
	GoalsFor     *int   `json:"goalsFor,omitempty"`
	GoalsAgainst *int   `json:"goalsAgainst,omitempty"`
}

// StoredRecord is a persisted match record with its documents passed through as JSON.
type StoredRecord struct {
	MatchID                  string          `json:"matchId"`
	Result                   string          `json:"result"`
	GoalsFor                 int             `json:"goalsFor"`
	GoalsAgainst             int             `json:"goalsAgainst"`
	Lineup                   []string        `json:"lineup"`
	TeamStats                json.RawMessage `json:"teamStats"`
	PlayerStats              json.RawMessage `json:"playerStats"`
	EventLog                 json.RawMessage `json:"postMatchEventLog"`
	Relationships            json.RawMessage `json:"playerRelationships"`
	Substitutions            json.RawMessage `json:"substitutionHistory"`
	PossessionSecondsWith    int             `json:"possessionSecondsWith"`
	PossessionSecondsWithout int             `json:"possessionSecondsWithout"`
	RecordedByUserID         string          `json:"recordedByUserId,omitempty"`
	RecordedByName           string          `json:"recordedByName"`
	FinishedAt               time.Time       `json:"finishedAt"`
}

// ListTeams returns the active teams.
func (g *Gateway) ListTeams(ctx context.Context) ([]TeamInfo, error) {
	rows, err := g.Teams.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	teams := make([]TeamInfo, 0, len(rows))
	for _, t := range rows {
		teams = append(teams, toTeamInfo(t))
	}
	return teams, nil
}

// TeamRoster returns a team and its active players.
func (g *Gateway) TeamRoster(ctx context.Context, teamID string) (*Roster, error) {
	team, err := g.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	rows, err := g.Players.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	roster := &Roster{Team: toTeamInfo(team), Players: make([]match.Player, 0, len(rows))}
	for _, p := range rows {
		roster.Players = append(roster.Players, toMatchPlayer(p))
	}
	return roster, nil
}

// TeamFixtures returns the most recent matches of a team.
func (g *Gateway) TeamFixtures(ctx context.Context, teamID string, limit int) ([]Fixture, error) {
	if limit <= 0 {
		limit = DefaultFixtureLimit
	}
	rows, err := g.Matches.GetByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, err
	}
	fixtures := make([]Fixture, 0, len(rows))
	for _, m := range rows {
		fixtures = append(fixtures, toFixture(m))
	}
	return fixtures, nil
}

// PlayerProfile returns one player.
func (g *Gateway) PlayerProfile(ctx context.Context, playerID string) (match.Player, error) {
	p, err := g.Players.GetByID(ctx, playerID)
	if err != nil {
		return match.Player{}, err
	}
	return toMatchPlayer(p), nil
}

// FinishedRecord returns the stored record of a finished match.
func (g *Gateway) FinishedRecord(ctx context.Context, matchID string) (*StoredRecord, error) {
	row, err := g.Matches.GetRecord(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return toStoredRecord(row), nil
}

// Seed makes sure the team, its roster and the fixture of a match exist so a
// record can be saved against it. An existing team keeps its name.
func (g *Gateway) Seed(ctx context.Context, info match.MatchInfo, roster []match.Player) error {
	if _, err := g.Teams.GetByID(ctx, info.TeamID); errors.Is(err, store.ErrNotFound) {
		if err := g.Teams.Upsert(ctx, toTeamRow(info)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	for _, p := range roster {
		if err := g.Players.Upsert(ctx, toPlayerRow(info.TeamID, p)); err != nil {
			return fmt.Errorf("seeding player %s: %w", p.ID, err)
		}
	}
	return g.Matches.Upsert(ctx, toMatchRow(info))
}

func toTeamInfo(t *store.Team) TeamInfo {
	return TeamInfo{
		ID:        t.TeamID,
		Name:      t.Name,
		ShortName: t.ShortName.String,
		Category:  t.Category.String,
		LogoURL:   t.LogoURL.String,
	}
}

func toFixture(m *store.Match) Fixture {
	f := Fixture{MatchInfo: toMatchInfo(m), Venue: m.Venue.String, Status: m.Status}
	if m.GoalsFor.Valid {
		v := int(m.GoalsFor.Int32)
		f.GoalsFor = &v
	}
	if m.GoalsAgainst.Valid {
		v := int(m.GoalsAgainst.Int32)
		f.GoalsAgainst = &v
	}
	return f
}

func toStoredRecord(row *store.MatchRecordRow) *StoredRecord {
	return &StoredRecord{
		MatchID:                  row.MatchID,
		Result:                   row.Result,
		GoalsFor:                 row.GoalsFor,
		GoalsAgainst:             row.GoalsAgainst,
		Lineup:                   nonNil([]string(row.Lineup)),
		TeamStats:                json.RawMessage(row.TeamStats),
		PlayerStats:              json.RawMessage(row.PlayerStats),
		EventLog:                 json.RawMessage(row.EventLog),
		Relationships:            json.RawMessage(row.Relationships),
		Substitutions:            json.RawMessage(row.Substitutions),
		PossessionSecondsWith:    row.PossessionSecondsWith,
		PossessionSecondsWithout: row.PossessionSecondsWithout,
		RecordedByUserID:         row.RecordedByUserID.String,
		RecordedByName:           row.RecordedByName,
		FinishedAt:               row.FinishedAt.UTC(),
	}
}

func toTeamRow(info match.MatchInfo) *store.Team {
	name := info.TeamName
	if name == "" {
		name = info.TeamID
	}
	return &store.Team{TeamID: info.TeamID, Name: name, IsActive: true}
}

func toPlayerRow(teamID string, p match.Player) *store.Player {
	return &store.Player{
		PlayerID:     p.ID,
		TeamID:       teamID,
		FullName:     p.Name,
		Nickname:     nullString(p.Nickname),
		JerseyNumber: p.JerseyNumber,
		Position:     p.Position,
		PhotoURL:     nullString(p.PhotoURL),
		IsActive:     true,
	}
}

func toMatchRow(info match.MatchInfo) *store.Match {
	return &store.Match{
		MatchID:     info.ID,
		TeamID:      info.TeamID,
		Opponent:    info.Opponent,
		Competition: info.Competition,
		MatchDate:   info.Date,
		Status:      store.MatchScheduled,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
