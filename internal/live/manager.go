// Package live owns the active capture sessions. Every input to a session is
// serialised through the session's lock, a single ticker drives the realtime
// clocks, and each accepted change is snapshotted, published and broadcast.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/stats"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGateway         = errors.New("persistence gateway failed")
)

// Config holds manager configuration.
type Config struct {
	TickInterval    time.Duration // Default: 1s
	SnapshotTimeout time.Duration // Default: 2s
	Session         match.SessionConfig
}

// DefaultConfig returns default manager configuration.
func DefaultConfig() *Config {
	return &Config{
		TickInterval:    time.Second,
		SnapshotTimeout: 2 * time.Second,
		Session:         match.DefaultSessionConfig(),
	}
}

// Deps are the collaborators of the manager. Only Roster and Gateway are required.
type Deps struct {
	Roster      RosterProvider
	Gateway     PersistenceGateway
	Archive     Archiver
	Snapshots   SnapshotStore
	Publisher   Publisher
	Broadcaster Broadcaster
	Logger      *slog.Logger
	Now         func() time.Time
}

type entry struct {
	mu        sync.Mutex
	session   *match.Session
	frequency map[string]int
}

// Manager owns the active sessions keyed by match id.
type Manager struct {
	cfg  *Config
	deps Deps
	log  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewManager creates a session manager.
func NewManager(cfg *Config, deps Deps) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Roster == nil || deps.Gateway == nil {
		return nil, errors.New("live: roster provider and persistence gateway are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		deps:     deps,
		log:      deps.Logger.With("component", "live"),
		sessions: make(map[string]*entry),
	}, nil
}

// OpenRequest selects the fixture and capture mode of a new session.
type OpenRequest struct {
	MatchID string     `json:"matchId"`
	Mode    match.Mode `json:"mode"`
}

// Open returns the active session for the match, restoring it from a snapshot
// or building it from the roster provider when needed.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (match.View, error) {
	if req.MatchID == "" {
		return match.View{}, &match.ValidationError{Field: "matchId", Message: "required"}
	}
	if e, ok := m.lookup(req.MatchID); ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.session.View(), nil
	}

	s, err := m.restore(ctx, req.MatchID)
	if err != nil {
		return match.View{}, err
	}
	var freq map[string]int
	if s == nil {
		if s, freq, err = m.build(ctx, req); err != nil {
			return match.View{}, err
		}
	} else {
		freq = m.frequency(ctx, req.MatchID, s.Info().TeamID)
	}

	m.mu.Lock()
	if existing, ok := m.sessions[req.MatchID]; ok {
		m.mu.Unlock()
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return existing.session.View(), nil
	}
	e := &entry{session: s, frequency: freq}
	m.sessions[req.MatchID] = e
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	m.afterChange(ctx, req.MatchID, e, nil)
	m.log.Info("session opened", "match_id", req.MatchID, "mode", s.Config().Mode, "players", len(s.Roster()))
	return e.session.View(), nil
}

func (m *Manager) restore(ctx context.Context, id string) (*match.Session, error) {
	if m.deps.Snapshots == nil {
		return nil, nil
	}
	st, found, err := m.deps.Snapshots.Load(ctx, id)
	if err != nil {
		m.log.Warn("snapshot load failed", "match_id", id, "error", err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	s, err := match.Restore(st, match.WithClock(m.deps.Now))
	if err != nil {
		return nil, fmt.Errorf("restoring session %s: %w", id, err)
	}
	m.log.Info("session restored from snapshot", "match_id", id, "events", len(st.Events))
	return s, nil
}

// build loads the match, then fetches its roster and the team's substitution
// frequency concurrently.
func (m *Manager) build(ctx context.Context, req OpenRequest) (*match.Session, map[string]int, error) {
	info, err := m.deps.Roster.LoadMatch(ctx, req.MatchID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading match %s: %w", req.MatchID, err)
	}

	var (
		roster []match.Player
		freq   map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = m.deps.Roster.LoadRoster(gctx, info.TeamID)
		if err != nil {
			return fmt.Errorf("loading roster for team %s: %w", info.TeamID, err)
		}
		return nil
	})
	g.Go(func() error {
		freq = m.frequency(gctx, req.MatchID, info.TeamID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cfg := m.cfg.Session
	if req.Mode != "" {
		cfg.Mode = req.Mode
	}
	s, err := match.NewSession(cfg, info, roster, match.WithClock(m.deps.Now))
	if err != nil {
		return nil, nil, err
	}
	return s, freq, nil
}

// frequency is best effort; bench ranking falls back to jersey order.
func (m *Manager) frequency(ctx context.Context, matchID, teamID string) map[string]int {
	freq, err := m.deps.Roster.SubstitutionFrequency(ctx, teamID)
	if err != nil {
		m.log.Warn("substitution frequency unavailable", "match_id", matchID, "error", err)
		return nil
	}
	return freq
}

func (m *Manager) lookup(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e, ok
}

// Sessions lists the ids of the active sessions.
func (m *Manager) Sessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply runs op against the session under its lock. On success the change
// is snapshotted, the returned event is published, and the view broadcast.
func (m *Manager) Apply(ctx context.Context, id string, op func(*match.Session) (*match.Event, error)) (*match.Event, match.View, error) {
	e, ok := m.lookup(id)
	if !ok {
		return nil, match.View{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	ev, err := op(e.session)
	if err != nil {
		return nil, e.session.View(), err
	}
	m.afterChange(ctx, id, e, ev)
	return ev, e.session.View(), nil
}

// Dispatch feeds one capture input to the session.
func (m *Manager) Dispatch(ctx context.Context, id string, in match.Input) (*match.Event, match.View, error) {
	return m.Apply(ctx, id, func(s *match.Session) (*match.Event, error) {
		return s.Dispatch(in)
	})
}

// Update runs a lineup, clock or configuration operation that emits no event.
func (m *Manager) Update(ctx context.Context, id string, op func(*match.Session) error) (match.View, error) {
	_, v, err := m.Apply(ctx, id, func(s *match.Session) (*match.Event, error) {
		return nil, op(s)
	})
	return v, err
}

// View returns the current render model.
func (m *Manager) View(id string) (match.View, error) {
	e, ok := m.lookup(id)
	if !ok {
		return match.View{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.View(), nil
}

// Stats aggregates the session's current log.
func (m *Manager) Stats(id string) (stats.Summary, error) {
	e, ok := m.lookup(id)
	if !ok {
		return stats.Summary{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	events := e.session.Events()
	e.mu.Unlock()
	return stats.Aggregate(events), nil
}

// BenchCandidates ranks the bench by historical substitution frequency.
func (m *Manager) BenchCandidates(id string) ([]match.Player, error) {
	e, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.BenchCandidates(e.frequency), nil
}

// afterChange persists and announces a change. Called with e.mu held.
func (m *Manager) afterChange(ctx context.Context, id string, e *entry, ev *match.Event) {
	if m.deps.Snapshots != nil {
		sctx, cancel := context.WithTimeout(ctx, m.cfg.SnapshotTimeout)
		if err := m.deps.Snapshots.Save(sctx, id, e.session.Snapshot()); err != nil {
			m.log.Warn("snapshot save failed", "match_id", id, "error", err)
		}
		cancel()
	}
	if ev != nil && m.deps.Publisher != nil {
		if err := m.deps.Publisher.PublishEvent(ctx, id, *ev); err != nil {
			m.log.Warn("event publish failed", "match_id", id, "event_id", ev.ID, "error", err)
		}
	}
	if m.deps.Broadcaster != nil {
		m.deps.Broadcaster.BroadcastView(id, e.session.View())
	}
}

// Run drives the realtime clocks until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	m.log.Info("clock loop started", "interval", m.cfg.TickInterval)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("clock loop stopped")
			return
		case <-ticker.C:
			m.TickAll(ctx)
		}
	}
}

// TickAll advances every session once.
func (m *Manager) TickAll(ctx context.Context) {
	now := m.deps.Now()
	for _, id := range m.Sessions() {
		e, ok := m.lookup(id)
		if !ok {
			continue
		}
		e.mu.Lock()
		if e.session.Tick(now) {
			m.afterChange(ctx, id, e, nil)
		}
		e.mu.Unlock()
	}
}

// Finish ends the session, hands the record to the persistence gateway and
// the archive, and drops the session. A gateway failure keeps the session and
// its snapshot so finishing can be retried.
func (m *Manager) Finish(ctx context.Context, id string, by stats.Recorder) (stats.MatchRecord, error) {
	e, ok := m.lookup(id)
	if !ok {
		return stats.MatchRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if !s.Ended() {
		if err := s.EndMatch(); err != nil {
			return stats.MatchRecord{}, err
		}
		m.afterChange(ctx, id, e, nil)
	}

	lineup := s.Lineup()
	possession := s.Possession()
	rec, err := stats.BuildRecord(stats.RecordInput{
		Match:             s.Info(),
		Events:            s.Events(),
		StartingLineup:    lineup.Starting,
		Substitutions:     lineup.Substitutions,
		PossessionWith:    possession.With,
		PossessionWithout: possession.Without,
		RecordedBy:        by,
		FinishedAt:        m.deps.Now(),
	})
	if err != nil {
		return stats.MatchRecord{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := m.deps.Gateway.SaveRecord(gctx, rec); err != nil {
			return err
		}
		return m.deps.Gateway.RecordSubstitutions(gctx, rec.TeamID, rec.SubstitutionHistory)
	})
	if m.deps.Archive != nil {
		g.Go(func() error {
			key, err := m.deps.Archive.Archive(gctx, rec)
			if err != nil {
				m.log.Warn("archive upload failed", "match_id", id, "error", err)
				return nil
			}
			m.log.Info("record archived", "match_id", id, "key", key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.log.Error("finish failed, session kept", "match_id", id, "error", err)
		return stats.MatchRecord{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.PublishRecord(ctx, rec); err != nil {
			m.log.Warn("record publish failed", "match_id", id, "error", err)
		}
	}
	if m.deps.Snapshots != nil {
		if err := m.deps.Snapshots.Delete(ctx, id); err != nil {
			m.log.Warn("snapshot delete failed", "match_id", id, "error", err)
		}
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("session finished", "match_id", id, "result", rec.Result,
		"goals_for", rec.GoalsFor, "goals_against", rec.GoalsAgainst, "events", len(rec.PostMatchEventLog))
	return rec, nil
}
