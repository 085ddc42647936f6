package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/quadra/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID finds a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (*store.Player, error) {
	query := `
		SELECT player_id, team_id, full_name, nickname, jersey_number, position,
			photo_url, is_active, created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(
		&player.PlayerID, &player.TeamID, &player.FullName, &player.Nickname, &player.JerseyNumber,
		&player.Position, &player.PhotoURL, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %s: %w", playerID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// GetByTeam returns the active roster of a team ordered by jersey number
func (r *PlayerRepository) GetByTeam(ctx context.Context, teamID string) ([]*store.Player, error) {
	query := `
		SELECT player_id, team_id, full_name, nickname, jersey_number, position,
			photo_url, is_active, created_at, updated_at
		FROM players
		WHERE team_id = $1 AND is_active = true
		ORDER BY jersey_number
	`

	rows, err := r.db.DB().QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return r.scanPlayers(rows)
}

// Upsert inserts or updates a player
func (r *PlayerRepository) Upsert(ctx context.Context, player *store.Player) error {
	query := `
		INSERT INTO players (player_id, team_id, full_name, nickname, jersey_number, position, photo_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			full_name = EXCLUDED.full_name,
			nickname = EXCLUDED.nickname,
			jersey_number = EXCLUDED.jersey_number,
			position = EXCLUDED.position,
			photo_url = EXCLUDED.photo_url,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		player.PlayerID, player.TeamID, player.FullName, player.Nickname,
		player.JerseyNumber, player.Position, player.PhotoURL, player.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}

	return nil
}

// scanPlayers scans multiple player rows
func (r *PlayerRepository) scanPlayers(rows *sql.Rows) ([]*store.Player, error) {
	var players []*store.Player
	for rows.Next() {
		player := &store.Player{}
		err := rows.Scan(
			&player.PlayerID, &player.TeamID, &player.FullName, &player.Nickname, &player.JerseyNumber,
			&player.Position, &player.PhotoURL, &player.IsActive, &player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}
