package match

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionConfig tunes rule constants. Zero values fall back to the defaults.
type SessionConfig struct {
	Mode                Mode          `json:"mode"`
	PeriodLengthSeconds int           `json:"periodLengthSeconds"`
	ExpulsionSeconds    int           `json:"expulsionSeconds"`
	FoulThreshold       int           `json:"foulThreshold"`
	AutoResumeDelay     time.Duration `json:"autoResumeDelay"`
}

// DefaultSessionConfig returns a realtime configuration with 20-minute halves.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Mode:                ModeRealtime,
		PeriodLengthSeconds: DefaultPeriodLength,
		ExpulsionSeconds:    ExpulsionWaitSeconds,
		FoulThreshold:       5,
		AutoResumeDelay:     time.Second,
	}
}

func (c SessionConfig) withDefaults() SessionConfig {
	d := DefaultSessionConfig()
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.PeriodLengthSeconds <= 0 {
		c.PeriodLengthSeconds = d.PeriodLengthSeconds
	}
	if c.ExpulsionSeconds <= 0 {
		c.ExpulsionSeconds = d.ExpulsionSeconds
	}
	if c.FoulThreshold <= 0 {
		c.FoulThreshold = d.FoulThreshold
	}
	if c.AutoResumeDelay <= 0 {
		c.AutoResumeDelay = d.AutoResumeDelay
	}
	return c
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock used for the auto-resume delay.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator replaces the event id generator.
func WithIDGenerator(next func() string) Option {
	return func(s *Session) { s.newID = next }
}

// Session is the root aggregate of one capture session. It is not safe for
// concurrent use; callers serialise every input.
type Session struct {
	cfg     SessionConfig
	info    MatchInfo
	roster  []Player
	players map[string]Player

	now   func() time.Time
	newID func() string

	started    bool
	clock      Clock
	possession PossessionTracker
	kickoff    Possession
	lineup     Lineup
	log        EventLog
	tally      Tally

	flow         Flow
	selected     string
	armed        Zone
	manualTime   *int
	manualPeriod Period
	resumeAt     time.Time
}

// NewSession opens a capture session for a fixture and its roster.
func NewSession(cfg SessionConfig, info MatchInfo, roster []Player, opts ...Option) (*Session, error) {
	cfg = cfg.withDefaults()
	if cfg.Mode != ModeRealtime && cfg.Mode != ModePostMatch {
		return nil, invalid("mode", "unknown mode %q", cfg.Mode)
	}
	players := make(map[string]Player, len(roster))
	for _, p := range roster {
		if p.ID == "" {
			return nil, invalid("roster", "player without id")
		}
		if _, dup := players[p.ID]; dup {
			return nil, invalid("roster", "duplicate player %q", p.ID)
		}
		players[p.ID] = p
	}

	s := &Session{
		cfg:     cfg,
		info:    info,
		roster:  append([]Player(nil), roster...),
		players: players,
		now:     time.Now,
		newID:   uuid.NewString,
		clock:   NewClock(cfg.PeriodLengthSeconds),
		flow:    IdleFlow{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Info returns the fixture metadata.
func (s *Session) Info() MatchInfo { return s.info }

// Config returns the effective configuration.
func (s *Session) Config() SessionConfig { return s.cfg }

// Roster returns the players available to the session.
func (s *Session) Roster() []Player { return append([]Player(nil), s.roster...) }

// Player looks up a roster entry.
func (s *Session) Player(id string) (Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Events returns the event log in capture order.
func (s *Session) Events() []Event { return s.log.Events() }

// Tally returns the derived counters.
func (s *Session) Tally() Tally { return s.tally }

// Lineup returns a copy of the lineup state.
func (s *Session) Lineup() Lineup { return s.lineup.clone() }

// Possession returns the possession counters.
func (s *Session) Possession() PossessionTracker { return s.possession }

// Clock returns the clock state.
func (s *Session) Clock() Clock { return s.clock }

// Flow returns the open capture flow.
func (s *Session) Flow() Flow { return s.flow }

// Started reports whether the lineup has been confirmed.
func (s *Session) Started() bool { return s.started }

// Ended reports whether the match has been closed.
func (s *Session) Ended() bool { return s.clock.State == ClockMatchEnded }

// ConfirmLineup validates the starting five and the kickoff possession and
// starts the match.
func (s *Session) ConfirmLineup(ids []string, possession *Possession) error {
	if s.started {
		return ErrLineupAlreadyLocked
	}
	if err := ValidateLineup(ids, s.players, possession); err != nil {
		return err
	}
	s.lineup = NewLineup(ids, s.roster)
	s.kickoff = *possession
	s.possession.Set(*possession)
	s.started = true
	return nil
}

func (s *Session) realtime() bool {
	return s.cfg.Mode == ModeRealtime
}

func (s *Session) clockOp(op func() error) error {
	if !s.realtime() {
		return ErrManualMode
	}
	if !s.started {
		return ErrMatchNotStarted
	}
	if s.Ended() {
		return ErrMatchEnded
	}
	return op()
}

// Start starts the clock for the first period.
func (s *Session) Start() error {
	return s.clockOp(s.clock.Start)
}

// Pause stops the clock and cancels a pending auto-resume.
func (s *Session) Pause() error {
	return s.clockOp(func() error {
		s.resumeAt = time.Time{}
		return s.clock.Pause()
	})
}

// Resume restarts a paused clock.
func (s *Session) Resume() error {
	return s.clockOp(func() error {
		s.resumeAt = time.Time{}
		return s.clock.Resume()
	})
}

// EndPeriod blows the whistle for the current period.
func (s *Session) EndPeriod() error {
	return s.clockOp(func() error {
		s.resumeAt = time.Time{}
		return s.clock.EndPeriod()
	})
}

// StartSecondPeriod leaves half-time. The second half opens with the
// complement of the kickoff possession.
func (s *Session) StartSecondPeriod() error {
	return s.clockOp(func() error {
		if err := s.clock.NextPeriod(); err != nil {
			return err
		}
		s.possession.Set(s.kickoff.Complement())
		return nil
	})
}

// EndMatch closes the session for capture. Any open flow and pending
// auto-resume are dropped.
func (s *Session) EndMatch() error {
	if !s.started {
		return ErrMatchNotStarted
	}
	if s.Ended() {
		return ErrMatchEnded
	}
	s.clock.End()
	s.flow = IdleFlow{}
	s.resumeAt = time.Time{}
	return nil
}

// Tick is driven once per second by the owner of the session. A due
// auto-resume is applied first, then a running clock advances one second and
// credits the active possession counter. It reports whether state changed.
func (s *Session) Tick(now time.Time) bool {
	if !s.realtime() || !s.started || s.Ended() {
		return false
	}
	changed := false
	if !s.resumeAt.IsZero() && !now.Before(s.resumeAt) {
		s.resumeAt = time.Time{}
		if s.clock.State == ClockPaused {
			s.clock.State = ClockRunning
			changed = true
		}
	}
	if s.clock.Tick() {
		s.possession.Accrue(1)
		changed = true
	}
	return changed
}

// ResumePending reports whether an auto-resume is scheduled.
func (s *Session) ResumePending() bool {
	return !s.resumeAt.IsZero()
}

// SetManualTime records the operator-entered time for the next event.
func (s *Session) SetManualTime(digits string) error {
	if s.realtime() {
		return ErrRealtimeMode
	}
	secs, err := ParseManualTime(digits)
	if err != nil {
		return err
	}
	s.manualTime = &secs
	return nil
}

// SetManualPeriod pins the period for subsequent manual times. Period zero
// reverts to deriving it from the entered time.
func (s *Session) SetManualPeriod(p Period) error {
	if s.realtime() {
		return ErrRealtimeMode
	}
	if p != 0 && p != PeriodFirst && p != PeriodSecond {
		return invalid("period", "unknown period %d", int(p))
	}
	s.manualPeriod = p
	return nil
}

// currentPeriod is the period actions are attributed to right now.
func (s *Session) currentPeriod() Period {
	if s.realtime() {
		return s.clock.Period
	}
	if s.manualPeriod != 0 {
		return s.manualPeriod
	}
	if s.manualTime != nil {
		return PeriodForTime(*s.manualTime)
	}
	return PeriodFirst
}

// stamp returns the clock position for a new event.
func (s *Session) stamp() (Stamp, error) {
	if s.realtime() {
		return Stamp{Time: s.clock.Seconds, Period: s.clock.Period}, nil
	}
	if s.manualTime == nil {
		return Stamp{}, ErrManualTimeRequired
	}
	return Stamp{Time: *s.manualTime, Period: s.currentPeriod()}, nil
}

// lineupStamp is the best known position for lineup changes, which do not
// require a manual time.
func (s *Session) lineupStamp() Stamp {
	if at, err := s.stamp(); err == nil {
		return at
	}
	return Stamp{Period: s.currentPeriod()}
}

// Substitute swaps an on-court player for a bench player.
func (s *Session) Substitute(outID, inID string) error {
	if err := s.lineupReady(); err != nil {
		return err
	}
	if err := s.lineup.Substitute(outID, inID, s.lineupStamp()); err != nil {
		return err
	}
	if s.selected == outID {
		s.selected = ""
	}
	return nil
}

// ExpulsionUnlocked reports whether any open expulsion slot may be filled.
func (s *Session) ExpulsionUnlocked() bool {
	at := s.lineupStamp()
	events := s.log.Events()
	for _, slot := range s.lineup.Expulsions {
		if slot.Unlocked(at, events, s.cfg.ExpulsionSeconds) {
			return true
		}
	}
	return false
}

// FillExpulsion brings a bench player into an unlocked expulsion slot.
func (s *Session) FillExpulsion(inID string) error {
	if err := s.lineupReady(); err != nil {
		return err
	}
	return s.lineup.FillExpulsion(inID, s.lineupStamp(), s.log.Events(), s.cfg.ExpulsionSeconds)
}

// SetGoalkeeper designates an on-court player as goalkeeper.
func (s *Session) SetGoalkeeper(id string) error {
	if err := s.lineupReady(); err != nil {
		return err
	}
	if _, ok := s.players[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return s.lineup.SetGoalkeeper(id)
}

// TogglePossession flips the possession state by hand.
func (s *Session) TogglePossession() error {
	if err := s.lineupReady(); err != nil {
		return err
	}
	s.possession.Toggle()
	return nil
}

func (s *Session) lineupReady() error {
	if !s.started {
		return ErrMatchNotStarted
	}
	if s.Ended() {
		return ErrMatchEnded
	}
	return nil
}

// FreeKickEnabled reports whether either side has reached the accumulated
// foul threshold in the current period.
func (s *Session) FreeKickEnabled() bool {
	committed, suffered := FoulsInPeriod(s.log.events, s.currentPeriod())
	return committed >= s.cfg.FoulThreshold || suffered >= s.cfg.FoulThreshold
}

// BenchCandidates orders bench players by how often they have come on in
// past matches, then by jersey number.
func (s *Session) BenchCandidates(frequency map[string]int) []Player {
	out := make([]Player, 0, len(s.lineup.Bench))
	for _, id := range s.lineup.Bench {
		if p, ok := s.players[id]; ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := frequency[out[i].ID], frequency[out[j].ID]
		if fi != fj {
			return fi > fj
		}
		return out[i].JerseyNumber < out[j].JerseyNumber
	})
	return out
}

// refresh relinks assists and recounts after any edit of the log.
func (s *Session) refresh() {
	s.log.events = RelinkAssists(s.log.events)
	s.tally = Recount(s.log.events)
}
