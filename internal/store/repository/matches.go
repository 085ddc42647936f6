package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/quadra/internal/store"
)

// MatchRepository handles fixtures and finished match records
type MatchRepository struct {
	db *store.Database
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *store.Database) *MatchRepository {
	return &MatchRepository{db: db}
}

// GetByID finds a match by ID, joined with its team name
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*store.Match, error) {
	query := `
		SELECT m.match_id, m.team_id, m.opponent, m.competition, m.match_date, m.venue,
			m.status, m.goals_for, m.goals_against, m.created_at, m.updated_at, t.name
		FROM matches m
		JOIN teams t ON t.team_id = m.team_id
		WHERE m.match_id = $1
	`

	m := &store.Match{}
	err := r.db.DB().QueryRowContext(ctx, query, matchID).Scan(
		&m.MatchID, &m.TeamID, &m.Opponent, &m.Competition, &m.MatchDate, &m.Venue,
		&m.Status, &m.GoalsFor, &m.GoalsAgainst, &m.CreatedAt, &m.UpdatedAt, &m.TeamName,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", matchID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying match: %w", err)
	}

	return m, nil
}

// GetByTeam returns the most recent matches of a team
func (r *MatchRepository) GetByTeam(ctx context.Context, teamID string, limit int) ([]*store.Match, error) {
	query := `
		SELECT m.match_id, m.team_id, m.opponent, m.competition, m.match_date, m.venue,
			m.status, m.goals_for, m.goals_against, m.created_at, m.updated_at, t.name
		FROM matches m
		JOIN teams t ON t.team_id = m.team_id
		WHERE m.team_id = $1
		ORDER BY m.match_date DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []*store.Match
	for rows.Next() {
		m := &store.Match{}
		err := rows.Scan(
			&m.MatchID, &m.TeamID, &m.Opponent, &m.Competition, &m.MatchDate, &m.Venue,
			&m.Status, &m.GoalsFor, &m.GoalsAgainst, &m.CreatedAt, &m.UpdatedAt, &m.TeamName,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Upsert inserts or updates a fixture
func (r *MatchRepository) Upsert(ctx context.Context, m *store.Match) error {
	query := `
		INSERT INTO matches (match_id, team_id, opponent, competition, match_date, venue, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO UPDATE SET
			opponent = EXCLUDED.opponent,
			competition = EXCLUDED.competition,
			match_date = EXCLUDED.match_date,
			venue = EXCLUDED.venue,
			updated_at = NOW()
	`

	status := m.Status
	if status == "" {
		status = store.MatchScheduled
	}
	_, err := r.db.DB().ExecContext(ctx, query,
		m.MatchID, m.TeamID, m.Opponent, m.Competition, m.MatchDate, m.Venue, status,
	)
	if err != nil {
		return fmt.Errorf("upserting match: %w", err)
	}

	return nil
}

// SaveRecord stores the finished record and marks the fixture finished in one transaction.
// Saving the same match again replaces the previous record.
func (r *MatchRepository) SaveRecord(ctx context.Context, rec *store.MatchRecordRow) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO match_records (match_id, result, goals_for, goals_against, lineup,
			team_stats, player_stats, event_log, relationships, substitutions,
			possession_seconds_with, possession_seconds_without,
			recorded_by_user_id, recorded_by_name, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (match_id) DO UPDATE SET
			result = EXCLUDED.result,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			lineup = EXCLUDED.lineup,
			team_stats = EXCLUDED.team_stats,
			player_stats = EXCLUDED.player_stats,
			event_log = EXCLUDED.event_log,
			relationships = EXCLUDED.relationships,
			substitutions = EXCLUDED.substitutions,
			possession_seconds_with = EXCLUDED.possession_seconds_with,
			possession_seconds_without = EXCLUDED.possession_seconds_without,
			recorded_by_user_id = EXCLUDED.recorded_by_user_id,
			recorded_by_name = EXCLUDED.recorded_by_name,
			finished_at = EXCLUDED.finished_at,
			updated_at = NOW()
	`
	_, err = tx.ExecContext(ctx, query,
		rec.MatchID, rec.Result, rec.GoalsFor, rec.GoalsAgainst, rec.Lineup,
		rec.TeamStats, rec.PlayerStats, rec.EventLog, rec.Relationships, rec.Substitutions,
		rec.PossessionSecondsWith, rec.PossessionSecondsWithout,
		rec.RecordedByUserID, rec.RecordedByName, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match record: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE matches
		SET status = $2, goals_for = $3, goals_against = $4, updated_at = NOW()
		WHERE match_id = $1
	`, rec.MatchID, store.MatchFinished, rec.GoalsFor, rec.GoalsAgainst)
	if err != nil {
		return fmt.Errorf("finishing match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", rec.MatchID, store.ErrNotFound)
	}

	return tx.Commit()
}

// GetRecord loads the stored record of a finished match
func (r *MatchRepository) GetRecord(ctx context.Context, matchID string) (*store.MatchRecordRow, error) {
	query := `
		SELECT match_id, result, goals_for, goals_against, lineup,
			team_stats, player_stats, event_log, relationships, substitutions,
			possession_seconds_with, possession_seconds_without,
			recorded_by_user_id, recorded_by_name, finished_at, created_at, updated_at
		FROM match_records
		WHERE match_id = $1
	`

	rec := &store.MatchRecordRow{}
	err := r.db.DB().QueryRowContext(ctx, query, matchID).Scan(
		&rec.MatchID, &rec.Result, &rec.GoalsFor, &rec.GoalsAgainst, &rec.Lineup,
		&rec.TeamStats, &rec.PlayerStats, &rec.EventLog, &rec.Relationships, &rec.Substitutions,
		&rec.PossessionSecondsWith, &rec.PossessionSecondsWithout,
		&rec.RecordedByUserID, &rec.RecordedByName, &rec.FinishedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record for match %s: %w", matchID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying match record: %w", err)
	}

	return rec, nil
}
