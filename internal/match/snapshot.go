package match

import "time"

// State is the serialisable form of a session. The open capture flow is not
// part of it; a restored session starts idle. A manual time entered but not yet
// used by an event is kept.
type State struct {
	Config       SessionConfig     `json:"config"`
	Match        MatchInfo         `json:"match"`
	Roster       []Player          `json:"roster"`
	Started      bool              `json:"started"`
	Clock        Clock             `json:"clock"`
	Possession   PossessionTracker `json:"possession"`
	Kickoff      Possession        `json:"kickoff,omitempty"`
	Lineup       Lineup            `json:"lineup"`
	Events       []Event           `json:"events"`
	Selected     string            `json:"selected,omitempty"`
	ManualTime   *int              `json:"manualTime,omitempty"`
	ManualPeriod Period            `json:"manualPeriod,omitempty"`
	ResumeAt     *time.Time        `json:"resumeAt,omitempty"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() State {
	st := State{
		Config:       s.cfg,
		Match:        s.info,
		Roster:       append([]Player(nil), s.roster...),
		Started:      s.started,
		Clock:        s.clock,
		Possession:   s.possession,
		Kickoff:      s.kickoff,
		Lineup:       s.lineup.clone(),
		Events:       s.log.Events(),
		Selected:     s.selected,
		ManualPeriod: s.manualPeriod,
	}
	if s.manualTime != nil {
		secs := *s.manualTime
		st.ManualTime = &secs
	}
	if !s.resumeAt.IsZero() {
		at := s.resumeAt
		st.ResumeAt = &at
	}
	return st
}

// Restore rebuilds a session from a snapshot. Derived counters and assist
// links are recomputed from the restored log.
func Restore(st State, opts ...Option) (*Session, error) {
	s, err := NewSession(st.Config, st.Match, st.Roster, opts...)
	if err != nil {
		return nil, err
	}
	s.started = st.Started
	if st.Clock.PeriodLength > 0 {
		s.clock = st.Clock
	}
	s.possession = st.Possession
	s.kickoff = st.Kickoff
	s.lineup = st.Lineup.clone()
	s.log.events = append([]Event(nil), st.Events...)
	s.selected = st.Selected
	s.manualPeriod = st.ManualPeriod
	if st.ManualTime != nil {
		secs := *st.ManualTime
		s.manualTime = &secs
	}
	if st.ResumeAt != nil {
		s.resumeAt = *st.ResumeAt
	}
	s.refresh()
	return s, nil
}
