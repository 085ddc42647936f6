package match

// Correction is an operator edit of a logged event. Nil fields keep the
// stored value. OurTeam re-attributes goals, fouls, free kicks and penalties.
type Correction struct {
	Time    *int       `json:"time,omitempty"`
	Period  *Period    `json:"period,omitempty"`
	Type    *EventType `json:"type,omitempty"`
	Result  *string    `json:"result,omitempty"`
	OurTeam *bool      `json:"ourTeam,omitempty"`
	Details *string    `json:"details,omitempty"`
}

// CorrectEvent replaces a logged event in place and recomputes every derived
// counter and assist link from the full log. The author is kept when a goal is
// re-attributed so the edit can be reverted. Lineup side effects of the
// original event, such as a card's expulsion, are not replayed.
func (s *Session) CorrectEvent(id string, c Correction) (*Event, error) {
	if !s.started {
		return nil, ErrMatchNotStarted
	}
	e, ok := s.log.Find(id)
	if !ok {
		return nil, ErrEventNotFound
	}
	fixed, err := applyCorrection(e, c)
	if err != nil {
		return nil, err
	}
	if err := s.log.Replace(fixed); err != nil {
		return nil, err
	}
	if rf, open := s.flow.(ReceiverFlow); open && rf.PassEventID == id && !isCorrectPass(fixed) {
		s.flow = IdleFlow{}
	}
	s.refresh()
	fixed, _ = s.log.Find(id)
	return &fixed, nil
}

func isCorrectPass(e Event) bool {
	p, ok := e.Pass()
	return ok && p.Result == PassCorrect
}

func applyCorrection(e Event, c Correction) (Event, error) {
	if c.Time != nil {
		if *c.Time < 0 || *c.Time >= MaxManualSeconds {
			return e, invalid("time", "%d is outside 0..%d", *c.Time, MaxManualSeconds-1)
		}
		e.Time = *c.Time
	}
	if c.Period != nil {
		if *c.Period != PeriodFirst && *c.Period != PeriodSecond {
			return e, invalid("period", "unknown period %d", int(*c.Period))
		}
		e.Period = *c.Period
	}
	if c.Details != nil {
		e.Details = *c.Details
	}

	typ := e.Type()
	if c.Type != nil {
		if !c.Type.valid() {
			return e, invalid("type", "unknown event type %q", *c.Type)
		}
		typ = *c.Type
	}
	result := e.Result()
	if c.Result != nil {
		result = *c.Result
	} else if typ != e.Type() {
		return e, invalid("result", "a result is required when changing the type to %s", typ)
	}
	if typ == e.Type() && c.Result == nil && c.OurTeam == nil {
		return e, nil
	}

	payload, err := buildPayload(typ, result, c.OurTeam, e.Payload)
	if err != nil {
		return e, err
	}
	e.Payload = payload
	e.Tipo, e.Subtipo = Labels(payload)
	return e, nil
}

// DeleteEvent removes a logged event, relinks assists and recounts.
func (s *Session) DeleteEvent(id string) error {
	if !s.started {
		return ErrMatchNotStarted
	}
	if _, err := s.log.Remove(id); err != nil {
		return err
	}
	if rf, open := s.flow.(ReceiverFlow); open && rf.PassEventID == id {
		s.flow = IdleFlow{}
	}
	s.refresh()
	return nil
}
