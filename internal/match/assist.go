package match

// AssistWindowSeconds is the trailing window in which a correct pass to the
// scorer counts as the assist.
const AssistWindowSeconds = 5

// LinkAssist returns a copy of events where the pass that set up goal is
// flagged as an assist. Only events logged before the goal are considered; the
// latest correct pass in the same period whose receiver scored within
// AssistWindowSeconds wins. Conceded goals, own goals and goals without an
// author leave the log untouched. Running it again is a no-op.
func LinkAssist(events []Event, goal Event) []Event {
	out := append([]Event(nil), events...)
	g, ok := goal.Goal()
	if !ok || g.IsOpponentGoal || g.Result == GoalContra || goal.PlayerID == "" {
		return out
	}

	end := len(out)
	for i := range out {
		if out[i].ID == goal.ID {
			end = i
			break
		}
	}
	for i := end - 1; i >= 0; i-- {
		e := out[i]
		p, ok := e.Pass()
		if !ok || p.Result != PassCorrect || p.PassToPlayerID != goal.PlayerID {
			continue
		}
		if e.Period != goal.Period {
			continue
		}
		gap := goal.Time - e.Time
		if gap < 0 || gap > AssistWindowSeconds {
			continue
		}
		p.IsAssist = true
		out[i].Payload = p
		break
	}
	return out
}

// RelinkAssists clears every assist flag and links each goal again against
// the events logged before it. Used after corrections and deletions.
func RelinkAssists(events []Event) []Event {
	out := append([]Event(nil), events...)
	for i := range out {
		if p, ok := out[i].Pass(); ok && p.IsAssist {
			p.IsAssist = false
			out[i].Payload = p
		}
	}
	for _, e := range events {
		if e.Type() == EventGoal {
			out = LinkAssist(out, e)
		}
	}
	return out
}
