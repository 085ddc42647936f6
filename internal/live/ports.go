package live

import (
	"context"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/stats"
)

// RosterProvider supplies fixtures and players at session start.
type RosterProvider interface {
	LoadMatch(ctx context.Context, matchID string) (match.MatchInfo, error)
	LoadRoster(ctx context.Context, teamID string) ([]match.Player, error)
	SubstitutionFrequency(ctx context.Context, teamID string) (map[string]int, error)
}

// PersistenceGateway accepts the finished match record.
type PersistenceGateway interface {
	SaveRecord(ctx context.Context, rec stats.MatchRecord) error
	RecordSubstitutions(ctx context.Context, teamID string, subs []match.SubstitutionRecord) error
}

// Archiver keeps a copy of the finished record outside the database.
type Archiver interface {
	Archive(ctx context.Context, rec stats.MatchRecord) (string, error)
}

// SnapshotStore keeps session state across restarts.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, st match.State) error
	Load(ctx context.Context, sessionID string) (match.State, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Publisher fans captured events and final records out to downstream consumers.
type Publisher interface {
	PublishEvent(ctx context.Context, sessionID string, e match.Event) error
	PublishRecord(ctx context.Context, rec stats.MatchRecord) error
}

// Broadcaster pushes the render model to connected clients.
type Broadcaster interface {
	BroadcastView(sessionID string, v match.View)
}
