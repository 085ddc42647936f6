package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/fortuna/quadra/internal/store"
)

// SubstitutionRepository tracks how often each player comes on from the bench
type SubstitutionRepository struct {
	db *store.Database
}

// NewSubstitutionRepository creates a new substitution frequency repository
func NewSubstitutionRepository(db *store.Database) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// Increment adds one entry per occurrence of each player id.
func (r *SubstitutionRepository) Increment(ctx context.Context, teamID string, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO substitution_frequency (team_id, player_id, entries)
		SELECT $1, player_id, COUNT(*)
		FROM UNNEST($2::text[]) AS player_id
		GROUP BY player_id
		ON CONFLICT (team_id, player_id) DO UPDATE SET
			entries = substitution_frequency.entries + EXCLUDED.entries,
			updated_at = NOW()
	`

	if _, err := r.db.DB().ExecContext(ctx, query, teamID, pq.Array(playerIDs)); err != nil {
		return fmt.Errorf("incrementing substitution frequency: %w", err)
	}
	return nil
}

// GetByTeam returns entries per player id.
func (r *SubstitutionRepository) GetByTeam(ctx context.Context, teamID string) (map[string]int, error) {
	query := `
		SELECT player_id, entries
		FROM substitution_frequency
		WHERE team_id = $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying substitution frequency: %w", err)
	}
	defer rows.Close()

	freq := make(map[string]int)
	for rows.Next() {
		var playerID string
		var entries int
		if err := rows.Scan(&playerID, &entries); err != nil {
			return nil, fmt.Errorf("scanning substitution frequency: %w", err)
		}
		freq[playerID] = entries
	}

	return freq, rows.Err()
}
