package store

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Team represents a futsal squad
type Team struct {
	TeamID    string         `json:"team_id" db:"team_id"`
	Name      string         `json:"name" db:"name"`
	ShortName sql.NullString `json:"short_name,omitempty" db:"short_name"`
	Category  sql.NullString `json:"category,omitempty" db:"category"`
	LogoURL   sql.NullString `json:"logo_url,omitempty" db:"logo_url"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a roster entry of a team
type Player struct {
	PlayerID     string         `json:"player_id" db:"player_id"`
	TeamID       string         `json:"team_id" db:"team_id"`
	FullName     string         `json:"full_name" db:"full_name"`
	Nickname     sql.NullString `json:"nickname,omitempty" db:"nickname"`
	JerseyNumber int            `json:"jersey_number" db:"jersey_number"`
	Position     string         `json:"position" db:"position"`
	PhotoURL     sql.NullString `json:"photo_url,omitempty" db:"photo_url"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Match statuses
const (
	MatchScheduled = "scheduled"
	MatchFinished  = "finished"
)

// Match represents a fixture of the tracked team
type Match struct {
	MatchID      string         `json:"match_id" db:"match_id"`
	TeamID       string         `json:"team_id" db:"team_id"`
	Opponent     string         `json:"opponent" db:"opponent"`
	Competition  string         `json:"competition" db:"competition"`
	MatchDate    time.Time      `json:"match_date" db:"match_date"`
	Venue        sql.NullString `json:"venue,omitempty" db:"venue"`
	Status       string         `json:"status" db:"status"`
	GoalsFor     sql.NullInt32  `json:"goals_for,omitempty" db:"goals_for"`
	GoalsAgainst sql.NullInt32  `json:"goals_against,omitempty" db:"goals_against"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	// Not in database - joined from teams for API responses
	TeamName string `json:"team_name,omitempty" db:"-"`
}

// MatchRecordRow is the persisted hand-off of a finished match. The stats
// and the event log are stored as JSONB documents.
type MatchRecordRow struct {
	MatchID                  string         `json:"match_id" db:"match_id"`
	Result                   string         `json:"result" db:"result"`
	GoalsFor                 int            `json:"goals_for" db:"goals_for"`
	GoalsAgainst             int            `json:"goals_against" db:"goals_against"`
	Lineup                   pq.StringArray `json:"lineup" db:"lineup"`
	TeamStats                []byte         `json:"team_stats" db:"team_stats"`
	PlayerStats              []byte         `json:"player_stats" db:"player_stats"`
	EventLog                 []byte         `json:"event_log" db:"event_log"`
	Relationships            []byte         `json:"relationships" db:"relationships"`
	Substitutions            []byte         `json:"substitutions" db:"substitutions"`
	PossessionSecondsWith    int            `json:"possession_seconds_with" db:"possession_seconds_with"`
	PossessionSecondsWithout int            `json:"possession_seconds_without" db:"possession_seconds_without"`
	RecordedByUserID         sql.NullString `json:"recorded_by_user_id,omitempty" db:"recorded_by_user_id"`
	RecordedByName           string         `json:"recorded_by_name" db:"recorded_by_name"`
	FinishedAt               time.Time      `json:"finished_at" db:"finished_at"`
	CreatedAt                time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at" db:"updated_at"`
}

// SubstitutionFrequency counts how often a player has come on from the bench
type SubstitutionFrequency struct {
	TeamID    string    `json:"team_id" db:"team_id"`
	PlayerID  string    `json:"player_id" db:"player_id"`
	Entries   int       `json:"entries" db:"entries"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
