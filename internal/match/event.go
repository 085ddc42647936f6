package match

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the Event union. Every capture action emits the
// event type of the same name.
type EventType string

const (
	EventPass     EventType = "pass"
	EventShot     EventType = "shot"
	EventFoul     EventType = "foul"
	EventGoal     EventType = "goal"
	EventCard     EventType = "card"
	EventTackle   EventType = "tackle"
	EventSave     EventType = "save"
	EventBlock    EventType = "block"
	EventCorner   EventType = "corner"
	EventFreeKick EventType = "freeKick"
	EventPenalty  EventType = "penalty"
	EventLateral  EventType = "lateral"
)

// Actions lists the capture actions in control-panel order.
var Actions = []EventType{
	EventPass, EventShot, EventFoul, EventGoal, EventCard, EventTackle,
	EventSave, EventBlock, EventCorner, EventFreeKick, EventPenalty, EventLateral,
}

func (t EventType) valid() bool {
	for _, a := range Actions {
		if a == t {
			return true
		}
	}
	return false
}

type PassResult string

const (
	PassCorrect PassResult = "correct"
	PassWrong   PassResult = "wrong"
)

type ShotResult string

const (
	ShotInside  ShotResult = "inside"
	ShotOutside ShotResult = "outside"
	ShotPost    ShotResult = "post"
	ShotBlocked ShotResult = "blocked"
)

// FoulTeam says which side committed the foul: "for" is a foul committed by
// the tracked team, "against" one committed on it.
type FoulTeam string

const (
	FoulFor     FoulTeam = "for"
	FoulAgainst FoulTeam = "against"
)

type GoalResult string

const (
	GoalNormal GoalResult = "normal"
	GoalContra GoalResult = "contra"
)

type CardType string

const (
	CardYellow       CardType = "yellow"
	CardSecondYellow CardType = "secondYellow"
	CardRed          CardType = "red"
)

type TackleResult string

const (
	TackleWithBall    TackleResult = "withBall"
	TackleWithoutBall TackleResult = "withoutBall"
	TackleCounter     TackleResult = "counter"
)

type SaveResult string

const (
	SaveSimple SaveResult = "simple"
	SaveHard   SaveResult = "hard"
)

type BlockResult string

const (
	BlockShot BlockResult = "shot"
	BlockPass BlockResult = "pass"
)

// Zone is a court quadrant used by corners and laterals.
type Zone string

const (
	ZoneAttackLeft   Zone = "attackLeft"
	ZoneAttackRight  Zone = "attackRight"
	ZoneDefenseLeft  Zone = "defenseLeft"
	ZoneDefenseRight Zone = "defenseRight"
)

type KickResult string

const (
	KickGoal    KickResult = "goal"
	KickSaved   KickResult = "saved"
	KickOutside KickResult = "outside"
	KickPost    KickResult = "post"
	KickNoGoal  KickResult = "noGoal"
)

// terminal results leave the clock stopped after a free kick or penalty.
func (r KickResult) terminal() bool {
	return r == KickGoal || r == KickNoGoal
}

// Results returns the single-step result vocabulary of an action.
func Results(t EventType) []string {
	switch t {
	case EventPass:
		return []string{string(PassCorrect), string(PassWrong)}
	case EventShot:
		return []string{string(ShotInside), string(ShotOutside), string(ShotPost), string(ShotBlocked)}
	case EventFoul:
		return []string{string(FoulFor), string(FoulAgainst)}
	case EventGoal:
		return []string{string(GoalNormal), string(GoalContra)}
	case EventCard:
		return []string{string(CardYellow), string(CardSecondYellow), string(CardRed)}
	case EventTackle:
		return []string{string(TackleWithBall), string(TackleWithoutBall), string(TackleCounter)}
	case EventSave:
		return []string{string(SaveSimple), string(SaveHard)}
	case EventBlock:
		return []string{string(BlockShot), string(BlockPass)}
	case EventCorner, EventLateral:
		return []string{string(ZoneAttackLeft), string(ZoneAttackRight), string(ZoneDefenseLeft), string(ZoneDefenseRight)}
	case EventFreeKick, EventPenalty:
		return []string{string(KickGoal), string(KickSaved), string(KickOutside), string(KickPost), string(KickNoGoal)}
	}
	return nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Payload is the closed set of per-type event fields.
type Payload interface {
	EventType() EventType
	result() string
}

// PassPayload keeps the receiver across result corrections; it only counts
// while Result is PassCorrect.
type PassPayload struct {
	Result         PassResult `json:"result"`
	PassToPlayerID string     `json:"passToPlayerId,omitempty"`
	PassToName     string     `json:"passToName,omitempty"`
	IsAssist       bool       `json:"isAssist,omitempty"`
}

type ShotPayload struct {
	Result ShotResult `json:"result"`
}

type FoulPayload struct {
	FoulTeam FoulTeam `json:"foulTeam"`
	Zone     Zone     `json:"zone,omitempty"`
}

type GoalPayload struct {
	Result         GoalResult `json:"result"`
	IsOpponentGoal bool       `json:"isOpponentGoal"`
	GoalMethod     string     `json:"goalMethod"`
}

type CardPayload struct {
	CardType CardType `json:"cardType"`
}

type TacklePayload struct {
	Result TackleResult `json:"result"`
}

type SavePayload struct {
	Result SaveResult `json:"result"`
}

type BlockPayload struct {
	Result BlockResult `json:"result"`
}

type CornerPayload struct {
	Result Zone `json:"result"`
}

type LateralPayload struct {
	Result Zone `json:"result"`
}

// Kick holds the fields shared by free kicks and penalties. KickerID is kept
// when the kick is attributed to the opponent and only counts while IsForUs.
type Kick struct {
	IsForUs  bool       `json:"isForUs"`
	KickerID string     `json:"kickerId,omitempty"`
	Result   KickResult `json:"result"`
}

type FreeKickPayload struct {
	Kick `json:",inline" yaml:",inline"`
}

type PenaltyPayload struct {
	Kick `json:",inline" yaml:",inline"`
}

func (PassPayload) EventType() EventType     { return EventPass }
func (ShotPayload) EventType() EventType     { return EventShot }
func (FoulPayload) EventType() EventType     { return EventFoul }
func (GoalPayload) EventType() EventType     { return EventGoal }
func (CardPayload) EventType() EventType     { return EventCard }
func (TacklePayload) EventType() EventType   { return EventTackle }
func (SavePayload) EventType() EventType     { return EventSave }
func (BlockPayload) EventType() EventType    { return EventBlock }
func (CornerPayload) EventType() EventType   { return EventCorner }
func (LateralPayload) EventType() EventType  { return EventLateral }
func (FreeKickPayload) EventType() EventType { return EventFreeKick }
func (PenaltyPayload) EventType() EventType  { return EventPenalty }

func (p PassPayload) result() string     { return string(p.Result) }
func (p ShotPayload) result() string     { return string(p.Result) }
func (p FoulPayload) result() string     { return string(p.FoulTeam) }
func (p GoalPayload) result() string     { return string(p.Result) }
func (p CardPayload) result() string     { return string(p.CardType) }
func (p TacklePayload) result() string   { return string(p.Result) }
func (p SavePayload) result() string     { return string(p.Result) }
func (p BlockPayload) result() string    { return string(p.Result) }
func (p CornerPayload) result() string   { return string(p.Result) }
func (p LateralPayload) result() string  { return string(p.Result) }
func (p FreeKickPayload) result() string { return string(p.Result) }
func (p PenaltyPayload) result() string  { return string(p.Result) }

// Event is one captured match action. Events are immutable once appended,
// except through correction and assist linking.
type Event struct {
	ID         string
	Time       int
	Period     Period
	PlayerID   string
	PlayerName string
	Tipo       string
	Subtipo    string
	Details    string
	Payload    Payload
}

// Type returns the event discriminator.
func (e Event) Type() EventType {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.EventType()
}

// Result returns the payload's result value as a string.
func (e Event) Result() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.result()
}

// Goal returns the goal payload when e is a goal.
func (e Event) Goal() (GoalPayload, bool) {
	p, ok := e.Payload.(GoalPayload)
	return p, ok
}

// Pass returns the pass payload when e is a pass.
func (e Event) Pass() (PassPayload, bool) {
	p, ok := e.Payload.(PassPayload)
	return p, ok
}

// Stamp returns the event's clock position.
func (e Event) Stamp() Stamp {
	return Stamp{Time: e.Time, Period: e.Period}
}

type eventEnvelope struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	Time       int             `json:"time"`
	Period     Period          `json:"period"`
	PlayerID   string          `json:"playerId,omitempty"`
	PlayerName string          `json:"playerName,omitempty"`
	Tipo       string          `json:"tipo"`
	Subtipo    string          `json:"subtipo"`
	Details    string          `json:"details,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// MarshalJSON writes the event with its type tag and a nested payload.
func (e Event) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventEnvelope{
		ID:         e.ID,
		Type:       e.Type(),
		Time:       e.Time,
		Period:     e.Period,
		PlayerID:   e.PlayerID,
		PlayerName: e.PlayerName,
		Tipo:       e.Tipo,
		Subtipo:    e.Subtipo,
		Details:    e.Details,
		Payload:    payload,
	})
}

// UnmarshalJSON decodes the payload variant named by the type tag.
func (e *Event) UnmarshalJSON(b []byte) error {
	var env eventEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	payload, err := decodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}
	*e = Event{
		ID:         env.ID,
		Time:       env.Time,
		Period:     env.Period,
		PlayerID:   env.PlayerID,
		PlayerName: env.PlayerName,
		Tipo:       env.Tipo,
		Subtipo:    env.Subtipo,
		Details:    env.Details,
		Payload:    payload,
	}
	return nil
}

func decodePayload(t EventType, raw json.RawMessage) (Payload, error) {
	var p Payload
	var err error
	switch t {
	case EventPass:
		p, err = decodeAs[PassPayload](raw)
	case EventShot:
		p, err = decodeAs[ShotPayload](raw)
	case EventFoul:
		p, err = decodeAs[FoulPayload](raw)
	case EventGoal:
		p, err = decodeAs[GoalPayload](raw)
	case EventCard:
		p, err = decodeAs[CardPayload](raw)
	case EventTackle:
		p, err = decodeAs[TacklePayload](raw)
	case EventSave:
		p, err = decodeAs[SavePayload](raw)
	case EventBlock:
		p, err = decodeAs[BlockPayload](raw)
	case EventCorner:
		p, err = decodeAs[CornerPayload](raw)
	case EventLateral:
		p, err = decodeAs[LateralPayload](raw)
	case EventFreeKick:
		p, err = decodeAs[FreeKickPayload](raw)
	case EventPenalty:
		p, err = decodeAs[PenaltyPayload](raw)
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", t, err)
	}
	return p, nil
}

func decodeAs[T Payload](raw json.RawMessage) (Payload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// buildPayload creates the payload for type t with the given result. Fields
// that survive a type-preserving correction are copied from prev. ours sets
// team attribution for goals, fouls, free kicks and penalties.
func buildPayload(t EventType, result string, ours *bool, prev Payload) (Payload, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, t)
	}
	if !contains(Results(t), result) {
		return nil, invalid("result", "%q is not a valid %s result", result, t)
	}
	attr := func(def bool) bool {
		if ours != nil {
			return *ours
		}
		return def
	}

	switch t {
	case EventPass:
		p := PassPayload{Result: PassResult(result)}
		if old, ok := prev.(PassPayload); ok {
			p.PassToPlayerID, p.PassToName = old.PassToPlayerID, old.PassToName
		}
		return p, nil
	case EventShot:
		return ShotPayload{Result: ShotResult(result)}, nil
	case EventFoul:
		p := FoulPayload{FoulTeam: FoulTeam(result)}
		if old, ok := prev.(FoulPayload); ok {
			p.Zone = old.Zone
		}
		if ours != nil {
			p.FoulTeam = FoulAgainst
			if *ours {
				p.FoulTeam = FoulFor
			}
		}
		return p, nil
	case EventGoal:
		p := GoalPayload{Result: GoalResult(result)}
		if old, ok := prev.(GoalPayload); ok {
			p.GoalMethod = old.GoalMethod
			p.IsOpponentGoal = !attr(!old.IsOpponentGoal)
		} else {
			p.IsOpponentGoal = !attr(true)
		}
		return p, nil
	case EventCard:
		return CardPayload{CardType: CardType(result)}, nil
	case EventTackle:
		return TacklePayload{Result: TackleResult(result)}, nil
	case EventSave:
		return SavePayload{Result: SaveResult(result)}, nil
	case EventBlock:
		return BlockPayload{Result: BlockResult(result)}, nil
	case EventCorner:
		return CornerPayload{Result: Zone(result)}, nil
	case EventLateral:
		return LateralPayload{Result: Zone(result)}, nil
	case EventFreeKick, EventPenalty:
		k := Kick{Result: KickResult(result), IsForUs: attr(true)}
		switch old := prev.(type) {
		case FreeKickPayload:
			k.KickerID, k.IsForUs = old.KickerID, attr(old.IsForUs)
		case PenaltyPayload:
			k.KickerID, k.IsForUs = old.KickerID, attr(old.IsForUs)
		}
		if t == EventFreeKick {
			return FreeKickPayload{k}, nil
		}
		return PenaltyPayload{k}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, t)
}
