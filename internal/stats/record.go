package stats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/quadra/internal/match"
)

// Result is the final outcome from the tracked team's side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// ResultFor compares goals for and against.
func ResultFor(goalsFor, goalsAgainst int) Result {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	}
	return ResultDraw
}

// Recorder identifies the user who captured the match.
type Recorder struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// RecordedEvent is an event of the handed-off log stamped with its recorder.
type RecordedEvent struct {
	ID               string          `json:"id" yaml:"id"`
	Type             match.EventType `json:"type" yaml:"type"`
	Time             int             `json:"time" yaml:"time"`
	Period           match.Period    `json:"period" yaml:"period"`
	PlayerID         string          `json:"playerId,omitempty" yaml:"playerId,omitempty"`
	PlayerName       string          `json:"playerName,omitempty" yaml:"playerName,omitempty"`
	Tipo             string          `json:"tipo" yaml:"tipo"`
	Subtipo          string          `json:"subtipo" yaml:"subtipo"`
	Details          string          `json:"details,omitempty" yaml:"details,omitempty"`
	Payload          json.RawMessage `json:"payload" yaml:"-"`
	RecordedByUserID string          `json:"recordedByUserId,omitempty" yaml:"recordedByUserId,omitempty"`
	RecordedByName   string          `json:"recordedByName" yaml:"recordedByName"`
}

// MatchRecord is the normalized record handed to the persistence gateway.
type MatchRecord struct {
	ID                       string                     `json:"id" yaml:"id"`
	TeamID                   string                     `json:"teamId,omitempty" yaml:"teamId,omitempty"`
	Opponent                 string                     `json:"opponent" yaml:"opponent"`
	Date                     time.Time                  `json:"date" yaml:"date"`
	Competition              string                     `json:"competition" yaml:"competition"`
	Result                   Result                     `json:"result" yaml:"result"`
	GoalsFor                 int                        `json:"goalsFor" yaml:"goalsFor"`
	GoalsAgainst             int                        `json:"goalsAgainst" yaml:"goalsAgainst"`
	TeamStats                TeamStats                  `json:"teamStats" yaml:"teamStats"`
	PlayerStats              []PlayerStats              `json:"playerStats" yaml:"playerStats"`
	PostMatchEventLog        []RecordedEvent            `json:"postMatchEventLog" yaml:"postMatchEventLog"`
	PlayerRelationships      []Relationship             `json:"playerRelationships,omitempty" yaml:"playerRelationships,omitempty"`
	Lineup                   []string                   `json:"lineup,omitempty" yaml:"lineup,omitempty"`
	SubstitutionHistory      []match.SubstitutionRecord `json:"substitutionHistory,omitempty" yaml:"substitutionHistory,omitempty"`
	PossessionSecondsWith    int                        `json:"possessionSecondsWith" yaml:"possessionSecondsWith"`
	PossessionSecondsWithout int                        `json:"possessionSecondsWithout" yaml:"possessionSecondsWithout"`
	RecordedBy               Recorder                   `json:"recordedBy" yaml:"recordedBy"`
	FinishedAt               time.Time                  `json:"finishedAt" yaml:"finishedAt"`
}

// RecordInput is everything BuildRecord needs from a finished session.
type RecordInput struct {
	Match             match.MatchInfo
	Events            []match.Event
	StartingLineup    []string
	Substitutions     []match.SubstitutionRecord
	PossessionWith    int
	PossessionWithout int
	RecordedBy        Recorder
	FinishedAt        time.Time
}

// BuildRecord normalizes a finished session for hand-off.
func BuildRecord(in RecordInput) (MatchRecord, error) {
	summary := Aggregate(in.Events)
	log := make([]RecordedEvent, 0, len(in.Events))
	for _, e := range in.Events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return MatchRecord{}, fmt.Errorf("encoding payload of event %s: %w", e.ID, err)
		}
		log = append(log, RecordedEvent{
			ID:               e.ID,
			Type:             e.Type(),
			Time:             e.Time,
			Period:           e.Period,
			PlayerID:         e.PlayerID,
			PlayerName:       e.PlayerName,
			Tipo:             e.Tipo,
			Subtipo:          e.Subtipo,
			Details:          e.Details,
			Payload:          payload,
			RecordedByUserID: in.RecordedBy.ID,
			RecordedByName:   in.RecordedBy.Name,
		})
	}

	return MatchRecord{
		ID:                       in.Match.ID,
		TeamID:                   in.Match.TeamID,
		Opponent:                 in.Match.Opponent,
		Date:                     in.Match.Date,
		Competition:              in.Match.Competition,
		Result:                   ResultFor(summary.Team.GoalsFor, summary.Team.GoalsAgainst),
		GoalsFor:                 summary.Team.GoalsFor,
		GoalsAgainst:             summary.Team.GoalsAgainst,
		TeamStats:                summary.Team,
		PlayerStats:              summary.Players,
		PostMatchEventLog:        log,
		PlayerRelationships:      summary.Relationships,
		Lineup:                   append([]string(nil), in.StartingLineup...),
		SubstitutionHistory:      append([]match.SubstitutionRecord(nil), in.Substitutions...),
		PossessionSecondsWith:    in.PossessionWith,
		PossessionSecondsWithout: in.PossessionWithout,
		RecordedBy:               in.RecordedBy,
		FinishedAt:               in.FinishedAt,
	}, nil
}
