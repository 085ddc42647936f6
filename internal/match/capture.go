package match

import (
	"fmt"
	"time"
)

// Dispatch is the single reducer of the capture flow. It validates the input
// against the session, advances the open flow, and returns the event that was
// appended or updated, if any. A rejected input leaves the session unchanged.
func (s *Session) Dispatch(in Input) (*Event, error) {
	switch in := in.(type) {
	case PressAction:
		return s.press(in.Action)
	case SelectPlayer:
		return s.selectPlayer(in.PlayerID)
	case ChooseOption:
		return s.choose(in.Option)
	case ArmSector:
		return nil, s.arm(in.Zone)
	case Confirm:
		return s.confirm()
	case Cancel:
		s.flow = IdleFlow{}
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported input %T", in)
}

func (s *Session) press(action EventType) (*Event, error) {
	if !action.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if rf, ok := s.flow.(ReceiverFlow); ok && action == EventPass {
		if _, err := s.log.Remove(rf.PassEventID); err != nil {
			return nil, err
		}
		s.flow = IdleFlow{}
		s.selected = rf.PasserID
		s.refresh()
		return nil, nil
	}

	if err := s.lineupReady(); err != nil {
		return nil, err
	}
	if s.realtime() && action != EventGoal && !s.clock.Running() {
		return nil, ErrClockStopped
	}
	at, err := s.stamp()
	if err != nil {
		return nil, err
	}

	switch action {
	case EventGoal:
		s.stopClock()
		s.flow = GoalFlow{Step: GoalStepTeam, At: at}
		return nil, nil
	case EventFreeKick, EventPenalty:
		if action == EventFreeKick && !s.FreeKickEnabled() {
			return nil, ErrFreeKickLocked
		}
		s.stopClock()
		s.flow = KickFlow{Action: action, Step: KickStepTeam, At: at}
		return nil, nil
	}

	if s.selected == "" {
		return nil, ErrNoPlayerSelected
	}
	if !s.lineup.IsOnCourt(s.selected) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotOnCourt, s.selected)
	}
	if action == EventSave && s.selected != s.lineup.GoalkeeperID {
		return nil, ErrNotGoalkeeper
	}
	if action == EventCorner && s.armed != "" {
		zone := s.armed
		s.armed = ""
		s.flow = IdleFlow{}
		return s.emit(s.selected, at, CornerPayload{Result: zone}), nil
	}
	s.flow = ResultFlow{Action: action, PlayerID: s.selected, At: at}
	return nil, nil
}

// stopClock pauses a running clock for set pieces and goals.
func (s *Session) stopClock() {
	s.resumeAt = time.Time{}
	if s.realtime() && s.clock.Running() {
		s.clock.State = ClockPaused
	}
}

func (s *Session) selectPlayer(id string) (*Event, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if !s.lineup.IsOnCourt(id) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotOnCourt, id)
	}

	switch f := s.flow.(type) {
	case ReceiverFlow:
		if id == f.PasserID {
			return nil, nil
		}
		e, found := s.log.Find(f.PassEventID)
		if !found {
			s.flow = IdleFlow{}
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, f.PassEventID)
		}
		pass, _ := e.Pass()
		pass.PassToPlayerID = id
		pass.PassToName = p.DisplayName()
		e.Payload = pass
		if err := s.log.Replace(e); err != nil {
			return nil, err
		}
		s.selected = id
		s.flow = IdleFlow{}
		return &e, nil
	case GoalFlow:
		if f.Step != GoalStepAuthor {
			return nil, ErrInvalidOption
		}
		f.AuthorID = id
		f.Step = GoalStepMethod
		s.flow = f
		return nil, nil
	case KickFlow:
		if f.Step != KickStepKicker {
			return nil, ErrInvalidOption
		}
		f.KickerID = id
		f.Step = KickStepResult
		s.flow = f
		return nil, nil
	case ResultFlow:
		s.flow = IdleFlow{}
	}
	s.selected = id
	return nil, nil
}

func (s *Session) choose(option string) (*Event, error) {
	switch f := s.flow.(type) {
	case ResultFlow:
		return s.chooseResult(f, option)
	case GoalFlow:
		return nil, s.chooseGoal(f, option)
	case KickFlow:
		return s.chooseKick(f, option)
	case ReceiverFlow:
		return nil, ErrInvalidOption
	}
	return nil, ErrNoOpenFlow
}

func (s *Session) chooseResult(f ResultFlow, option string) (*Event, error) {
	payload, err := buildPayload(f.Action, option, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	s.flow = IdleFlow{}
	e := s.emit(f.PlayerID, f.At, payload)

	switch p := payload.(type) {
	case PassPayload:
		if p.Result == PassCorrect {
			s.flow = ReceiverFlow{PassEventID: e.ID, PasserID: f.PlayerID}
		}
	case CardPayload:
		if s.lineup.RecordCard(f.PlayerID, p.CardType, f.At) && s.selected == f.PlayerID {
			s.selected = ""
		}
	case TacklePayload:
		if p.Result == TackleWithoutBall {
			s.possession.Set(WithoutPossession)
		} else {
			s.possession.Set(WithPossession)
		}
	case SavePayload, BlockPayload:
		s.possession.Set(WithPossession)
	}
	return e, nil
}

func (s *Session) chooseGoal(f GoalFlow, option string) error {
	switch f.Step {
	case GoalStepTeam:
		switch option {
		case OptionOurs:
			f.Ours = true
			f.Step = GoalStepAuthor
		case OptionTheirs:
			f.Ours = false
			f.Step = GoalStepMethod
		default:
			return ErrInvalidOption
		}
	case GoalStepAuthor:
		if option != OptionOwnGoal {
			return ErrInvalidOption
		}
		f.OwnGoal = true
		f.AuthorID = ""
		f.Step = GoalStepMethod
	case GoalStepMethod:
		if !contains(goalMethods(f.Ours), option) {
			return ErrInvalidOption
		}
		f.Method = option
		f.Step = GoalStepConfirm
	default:
		return ErrInvalidOption
	}
	s.flow = f
	return nil
}

func (s *Session) chooseKick(f KickFlow, option string) (*Event, error) {
	switch f.Step {
	case KickStepTeam:
		switch option {
		case OptionOurs:
			f.ForUs = true
			f.Step = KickStepKicker
		case OptionTheirs:
			f.ForUs = false
			f.Step = KickStepResult
		default:
			return nil, ErrInvalidOption
		}
		s.flow = f
		return nil, nil
	case KickStepKicker:
		if option != OptionNoKick {
			return nil, ErrInvalidOption
		}
		f.Step = KickStepResult
		s.flow = f
		return nil, nil
	}

	result := KickResult(option)
	if !contains(Results(f.Action), option) {
		return nil, ErrInvalidOption
	}
	k := Kick{IsForUs: f.ForUs, KickerID: f.KickerID, Result: result}
	var payload Payload = FreeKickPayload{k}
	if f.Action == EventPenalty {
		payload = PenaltyPayload{k}
	}
	s.flow = IdleFlow{}
	e := s.emit(f.KickerID, f.At, payload)
	if s.realtime() && !result.terminal() {
		s.resumeAt = s.now().Add(s.cfg.AutoResumeDelay)
	}
	return e, nil
}

func (s *Session) arm(zone Zone) error {
	if zone != "" && !contains(Results(EventCorner), string(zone)) {
		return ErrInvalidOption
	}
	s.armed = zone
	return nil
}

func (s *Session) confirm() (*Event, error) {
	f, ok := s.flow.(GoalFlow)
	if !ok || f.Step != GoalStepConfirm {
		return nil, ErrNothingToConfirm
	}
	payload := GoalPayload{Result: GoalNormal, IsOpponentGoal: !f.Ours, GoalMethod: f.Method}
	if f.Ours && f.OwnGoal {
		payload.Result = GoalContra
	}
	author := ""
	if f.Ours && !f.OwnGoal {
		author = f.AuthorID
	}
	s.flow = IdleFlow{}
	return s.emit(author, f.At, payload), nil
}

// emit appends one event built from the payload, links the assist of a goal,
// recounts, and consumes the manual time.
func (s *Session) emit(playerID string, at Stamp, payload Payload) *Event {
	tipo, subtipo := Labels(payload)
	e := Event{
		ID:      s.newID(),
		Time:    at.Time,
		Period:  at.Period,
		Tipo:    tipo,
		Subtipo: subtipo,
		Details: s.details(payload),
		Payload: payload,
	}
	if playerID != "" {
		e.PlayerID = playerID
		e.PlayerName = s.players[playerID].DisplayName()
	}

	s.log.Append(e)
	if e.Type() == EventGoal {
		s.log.events = LinkAssist(s.log.events, e)
	}
	s.tally = Recount(s.log.events)
	s.manualTime = nil
	return &e
}

func (s *Session) details(p Payload) string {
	switch p := p.(type) {
	case GoalPayload:
		return p.GoalMethod
	case FreeKickPayload:
		return s.kickerName(p.Kick)
	case PenaltyPayload:
		return s.kickerName(p.Kick)
	}
	return ""
}

func (s *Session) kickerName(k Kick) string {
	if k.KickerID == "" {
		return ""
	}
	return s.players[k.KickerID].DisplayName()
}
