package match

import "fmt"

// LineupSize is the number of players on court at full strength.
const LineupSize = 5

// ExpulsionWaitSeconds is how long a team plays short-handed before a replacement may enter.
const ExpulsionWaitSeconds = 120

// SubstitutionRecord is one entry of the substitution history.
type SubstitutionRecord struct {
	PlayerOutID string `json:"playerOutId" yaml:"playerOutId"`
	PlayerInID  string `json:"playerInId" yaml:"playerInId"`
	Time        int    `json:"time" yaml:"time"`
	Period      Period `json:"period" yaml:"period"`
}

// ExpulsionSlot marks a vacated court position after a sending-off.
type ExpulsionSlot struct {
	ExpelledPlayerID  string `json:"expelledPlayerId"`
	ExpelledAtSeconds int    `json:"expelledAtSeconds"`
	Period            Period `json:"period"`
}

func (x ExpulsionSlot) stamp() Stamp {
	return Stamp{Time: x.ExpelledAtSeconds, Period: x.Period}
}

// Unlocked reports whether a replacement may fill the slot: the wait has
// elapsed within the same period, or the opponent has scored since.
func (x ExpulsionSlot) Unlocked(now Stamp, events []Event, wait int) bool {
	if now.Period == x.Period && now.Time >= x.ExpelledAtSeconds+wait {
		return true
	}
	for _, e := range events {
		g, ok := e.Goal()
		if !ok || !g.IsOpponentGoal {
			continue
		}
		if e.Stamp().atOrAfter(x.stamp()) {
			return true
		}
	}
	return false
}

// Lineup owns who is on court, on the bench, in goal, and sent off.
type Lineup struct {
	Starting      []string              `json:"starting"`
	OnCourt       []string              `json:"onCourt"`
	Bench         []string              `json:"bench"`
	GoalkeeperID  string                `json:"goalkeeperId"`
	Expulsions    []ExpulsionSlot       `json:"expulsions,omitempty"`
	Expelled      []string              `json:"expelled,omitempty"`
	Cards         map[string][]CardType `json:"cards,omitempty"`
	Substitutions []SubstitutionRecord  `json:"substitutions,omitempty"`
}

// ValidateLineup checks the start-of-match preconditions: exactly five
// distinct known players, at most one goalkeeper, and a kickoff possession.
func ValidateLineup(ids []string, roster map[string]Player, possession *Possession) error {
	if len(ids) != LineupSize {
		return invalid("lineup", "exactly %d players required, got %d", LineupSize, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	keepers := 0
	for _, id := range ids {
		p, ok := roster[id]
		if !ok {
			return invalid("lineup", "unknown player %q", id)
		}
		if seen[id] {
			return invalid("lineup", "player %q listed twice", id)
		}
		seen[id] = true
		if p.CanKeepGoal() {
			keepers++
		}
	}
	if keepers > 1 {
		return invalid("lineup", "at most one goalkeeper allowed, got %d", keepers)
	}
	if possession == nil || !possession.valid() {
		return invalid("possession", "choose the kickoff possession")
	}
	return nil
}

// NewLineup builds the starting lineup; everyone else in the roster order is on the bench.
func NewLineup(ids []string, roster []Player) Lineup {
	l := Lineup{
		Starting: append([]string(nil), ids...),
		OnCourt:  append([]string(nil), ids...),
		Cards:    make(map[string][]CardType),
	}
	onCourt := make(map[string]bool, len(ids))
	for _, id := range ids {
		onCourt[id] = true
	}
	for _, p := range roster {
		if !onCourt[p.ID] {
			l.Bench = append(l.Bench, p.ID)
		}
		if onCourt[p.ID] && p.CanKeepGoal() {
			l.GoalkeeperID = p.ID
		}
	}
	if l.GoalkeeperID == "" && len(ids) > 0 {
		l.GoalkeeperID = ids[0]
	}
	return l
}

// IsOnCourt reports whether the player is currently playing.
func (l *Lineup) IsOnCourt(id string) bool {
	return indexOf(l.OnCourt, id) >= 0
}

// IsOnBench reports whether the player may come on.
func (l *Lineup) IsOnBench(id string) bool {
	return indexOf(l.Bench, id) >= 0
}

// Substitute swaps an on-court player for a bench player in the same slot.
// A goalkeeper leaving hands the role to whoever enters.
func (l *Lineup) Substitute(outID, inID string, at Stamp) error {
	slot := indexOf(l.OnCourt, outID)
	if slot < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotOnCourt, outID)
	}
	b := indexOf(l.Bench, inID)
	if b < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotOnBench, inID)
	}
	l.OnCourt[slot] = inID
	l.Bench[b] = outID
	if l.GoalkeeperID == outID {
		l.GoalkeeperID = inID
	}
	l.Substitutions = append(l.Substitutions, SubstitutionRecord{
		PlayerOutID: outID,
		PlayerInID:  inID,
		Time:        at.Time,
		Period:      at.Period,
	})
	return nil
}

// IsExpelledBy reports whether a card history amounts to a sending-off.
func IsExpelledBy(cards []CardType) bool {
	yellows := 0
	for _, c := range cards {
		switch c {
		case CardRed, CardSecondYellow:
			return true
		case CardYellow:
			yellows++
		}
	}
	return yellows >= 2
}

// RecordCard appends to the player's card history and, when the history
// amounts to a red, removes the player from court and opens an expulsion slot.
func (l *Lineup) RecordCard(id string, card CardType, at Stamp) (expelled bool) {
	if l.Cards == nil {
		l.Cards = make(map[string][]CardType)
	}
	l.Cards[id] = append(l.Cards[id], card)
	if !IsExpelledBy(l.Cards[id]) || indexOf(l.Expelled, id) >= 0 {
		return false
	}

	l.Expelled = append(l.Expelled, id)
	if slot := indexOf(l.OnCourt, id); slot >= 0 {
		l.OnCourt = append(l.OnCourt[:slot], l.OnCourt[slot+1:]...)
		l.Expulsions = append(l.Expulsions, ExpulsionSlot{
			ExpelledPlayerID:  id,
			ExpelledAtSeconds: at.Time,
			Period:            at.Period,
		})
	}
	if b := indexOf(l.Bench, id); b >= 0 {
		l.Bench = append(l.Bench[:b], l.Bench[b+1:]...)
	}
	if l.GoalkeeperID == id {
		l.GoalkeeperID = ""
	}
	return true
}

// FillExpulsion brings a bench player into the oldest unlocked expulsion slot.
func (l *Lineup) FillExpulsion(inID string, at Stamp, events []Event, wait int) error {
	if len(l.Expulsions) == 0 {
		return ErrNoExpulsion
	}
	b := indexOf(l.Bench, inID)
	if b < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotOnBench, inID)
	}
	for i, slot := range l.Expulsions {
		if !slot.Unlocked(at, events, wait) {
			continue
		}
		l.OnCourt = append(l.OnCourt, inID)
		l.Bench = append(l.Bench[:b], l.Bench[b+1:]...)
		l.Expulsions = append(l.Expulsions[:i], l.Expulsions[i+1:]...)
		l.Substitutions = append(l.Substitutions, SubstitutionRecord{
			PlayerOutID: slot.ExpelledPlayerID,
			PlayerInID:  inID,
			Time:        at.Time,
			Period:      at.Period,
		})
		return nil
	}
	return ErrExpulsionLocked
}

// SetGoalkeeper lets any on-court player assume the goalkeeper role.
func (l *Lineup) SetGoalkeeper(id string) error {
	if !l.IsOnCourt(id) {
		return fmt.Errorf("%w: %s", ErrPlayerNotOnCourt, id)
	}
	l.GoalkeeperID = id
	return nil
}

func (l Lineup) clone() Lineup {
	c := l
	c.Starting = append([]string(nil), l.Starting...)
	c.OnCourt = append([]string(nil), l.OnCourt...)
	c.Bench = append([]string(nil), l.Bench...)
	c.Expulsions = append([]ExpulsionSlot(nil), l.Expulsions...)
	c.Expelled = append([]string(nil), l.Expelled...)
	c.Substitutions = append([]SubstitutionRecord(nil), l.Substitutions...)
	c.Cards = make(map[string][]CardType, len(l.Cards))
	for id, cards := range l.Cards {
		c.Cards[id] = append([]CardType(nil), cards...)
	}
	return c
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
