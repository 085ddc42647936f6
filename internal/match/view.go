package match

// View is the render model of a session after each input.
type View struct {
	Match             MatchInfo         `json:"match"`
	Mode              Mode              `json:"mode"`
	Started           bool              `json:"started"`
	Ended             bool              `json:"ended"`
	Clock             Clock             `json:"clock"`
	ClockDisplay      string            `json:"clockDisplay"`
	Possession        PossessionTracker `json:"possession"`
	Lineup            Lineup            `json:"lineup"`
	Tally             Tally             `json:"tally"`
	Selected          string            `json:"selectedPlayerId,omitempty"`
	ArmedSector       Zone              `json:"armedSector,omitempty"`
	ManualTime        *int              `json:"manualTime,omitempty"`
	ManualPeriod      Period            `json:"manualPeriod,omitempty"`
	Flow              FlowView          `json:"flow"`
	EnabledActions    []EventType       `json:"enabledActions"`
	FreeKickEnabled   bool              `json:"freeKickEnabled"`
	ExpulsionUnlocked bool              `json:"expulsionUnlocked"`
	ResumePending     bool              `json:"resumePending"`
	Events            []Event           `json:"events"`
}

// View builds the render model.
func (s *Session) View() View {
	v := View{
		Match:             s.info,
		Mode:              s.cfg.Mode,
		Started:           s.started,
		Ended:             s.Ended(),
		Clock:             s.clock,
		ClockDisplay:      FormatClock(s.clock.Seconds),
		Possession:        s.possession,
		Lineup:            s.lineup.clone(),
		Tally:             s.tally,
		Selected:          s.selected,
		ArmedSector:       s.armed,
		ManualPeriod:      s.manualPeriod,
		Flow:              describeFlow(s.flow),
		EnabledActions:    s.enabledActions(),
		FreeKickEnabled:   s.FreeKickEnabled(),
		ExpulsionUnlocked: s.ExpulsionUnlocked(),
		ResumePending:     s.ResumePending(),
		Events:            s.log.Events(),
	}
	if s.manualTime != nil {
		t := *s.manualTime
		v.ManualTime = &t
		v.ClockDisplay = FormatClock(t)
	}
	return v
}

// enabledActions lists the actions a press would currently accept, ignoring
// the player-dependent save check.
func (s *Session) enabledActions() []EventType {
	out := []EventType{}
	if !s.started || s.Ended() {
		return out
	}
	if !s.realtime() && s.manualTime == nil {
		return out
	}
	running := !s.realtime() || s.clock.Running()
	for _, a := range Actions {
		switch {
		case a == EventGoal:
		case !running:
			continue
		case a == EventFreeKick && !s.FreeKickEnabled():
			continue
		case a == EventFreeKick, a == EventPenalty:
		case s.selected == "":
			continue
		case a == EventSave && s.selected != s.lineup.GoalkeeperID:
			continue
		}
		out = append(out, a)
	}
	return out
}
