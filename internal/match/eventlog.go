package match

import "fmt"

// EventLog is the ordered record of captured events. Appends are the common
// path; Replace and Remove exist for operator corrections.
type EventLog struct {
	events []Event
}

// Events returns a copy of the log in capture order.
func (l *EventLog) Events() []Event {
	return append([]Event(nil), l.events...)
}

// Len returns the number of events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// Append adds an event at the end of the log.
func (l *EventLog) Append(e Event) {
	l.events = append(l.events, e)
}

// Find returns the event with the given id.
func (l *EventLog) Find(id string) (Event, bool) {
	if i := l.index(id); i >= 0 {
		return l.events[i], true
	}
	return Event{}, false
}

// Replace swaps the stored event with the same id in place.
func (l *EventLog) Replace(e Event) error {
	i := l.index(e.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, e.ID)
	}
	l.events[i] = e
	return nil
}

// Remove deletes the event with the given id.
func (l *EventLog) Remove(id string) (Event, error) {
	i := l.index(id)
	if i < 0 {
		return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	e := l.events[i]
	l.events = append(l.events[:i], l.events[i+1:]...)
	return e, nil
}

func (l *EventLog) index(id string) int {
	for i := range l.events {
		if l.events[i].ID == id {
			return i
		}
	}
	return -1
}

// Tally holds the counters derived from the log. It is never patched
// incrementally; every change to the log produces a fresh Recount.
type Tally struct {
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
	FoulsFor     int `json:"foulsFor"`
	FoulsAgainst int `json:"foulsAgainst"`
}

// Recount derives the tally from scratch.
func Recount(events []Event) Tally {
	var t Tally
	for _, e := range events {
		switch p := e.Payload.(type) {
		case GoalPayload:
			if p.IsOpponentGoal {
				t.GoalsAgainst++
			} else {
				t.GoalsFor++
			}
		case FoulPayload:
			if p.FoulTeam == FoulFor {
				t.FoulsFor++
			} else {
				t.FoulsAgainst++
			}
		}
	}
	return t
}

// FoulsInPeriod counts fouls committed by and against the team within one period.
func FoulsInPeriod(events []Event, period Period) (committed, suffered int) {
	for _, e := range events {
		p, ok := e.Payload.(FoulPayload)
		if !ok || e.Period != period {
			continue
		}
		if p.FoulTeam == FoulFor {
			committed++
		} else {
			suffered++
		}
	}
	return committed, suffered
}
