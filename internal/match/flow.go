package match

// Input is one operator interaction fed to Session.Dispatch.
type Input interface {
	isInput()
}

// PressAction taps one of the twelve action controls.
type PressAction struct {
	Action EventType
}

// SelectPlayer taps a player card.
type SelectPlayer struct {
	PlayerID string
}

// ChooseOption picks a sub-result or step option inside an open flow.
type ChooseOption struct {
	Option string
}

// ArmSector pre-selects the ball sector used to resolve the next corner.
// An empty zone disarms it.
type ArmSector struct {
	Zone Zone
}

// Confirm finalises a flow that ends with an explicit confirmation.
type Confirm struct{}

// Cancel abandons the open flow.
type Cancel struct{}

func (PressAction) isInput()  {}
func (SelectPlayer) isInput() {}
func (ChooseOption) isInput() {}
func (ArmSector) isInput()    {}
func (Confirm) isInput()      {}
func (Cancel) isInput()       {}

// Step options that are not result values.
const (
	OptionOurs    = "ours"
	OptionTheirs  = "theirs"
	OptionOwnGoal = "ownGoal"
	OptionNoKick  = "none"
)

// FlowKind names the open capture flow.
type FlowKind string

const (
	FlowIdle     FlowKind = "idle"
	FlowResult   FlowKind = "result"
	FlowReceiver FlowKind = "awaitingReceiver"
	FlowGoal     FlowKind = "goal"
	FlowKick     FlowKind = "kick"
)

// Flow is the capture flow position. Exactly one flow is open at a time.
type Flow interface {
	Kind() FlowKind
}

// IdleFlow means no action is open.
type IdleFlow struct{}

// ResultFlow waits for the single-step result of a player action.
type ResultFlow struct {
	Action   EventType
	PlayerID string
	At       Stamp
}

// ReceiverFlow waits for the receiver of an already logged correct pass.
type ReceiverFlow struct {
	PassEventID string
	PasserID    string
}

// GoalStep is the position inside the goal flow.
type GoalStep string

const (
	GoalStepTeam    GoalStep = "team"
	GoalStepAuthor  GoalStep = "author"
	GoalStepMethod  GoalStep = "method"
	GoalStepConfirm GoalStep = "confirm"
)

// GoalFlow runs team -> [author] -> method -> confirm. At is the clock
// position when the goal control was pressed.
type GoalFlow struct {
	Step     GoalStep
	At       Stamp
	Ours     bool
	AuthorID string
	OwnGoal  bool
	Method   string
}

// KickStep is the position inside a free kick or penalty flow.
type KickStep string

const (
	KickStepTeam   KickStep = "team"
	KickStepKicker KickStep = "kicker"
	KickStepResult KickStep = "result"
)

// KickFlow runs team -> [kicker] -> result for free kicks and penalties.
type KickFlow struct {
	Action   EventType
	Step     KickStep
	At       Stamp
	ForUs    bool
	KickerID string
}

func (IdleFlow) Kind() FlowKind     { return FlowIdle }
func (ResultFlow) Kind() FlowKind   { return FlowResult }
func (ReceiverFlow) Kind() FlowKind { return FlowReceiver }
func (GoalFlow) Kind() FlowKind     { return FlowGoal }
func (KickFlow) Kind() FlowKind     { return FlowKick }

// FlowView is the render model of the open flow. PickPlayer is set when the
// step expects a SelectPlayer input.
type FlowView struct {
	Kind       FlowKind  `json:"kind"`
	Action     EventType `json:"action,omitempty"`
	Step       string    `json:"step,omitempty"`
	Options    []string  `json:"options,omitempty"`
	PickPlayer bool      `json:"pickPlayer,omitempty"`
	PlayerID   string    `json:"playerId,omitempty"`
	Time       *Stamp    `json:"time,omitempty"`
}

func describeFlow(f Flow) FlowView {
	switch f := f.(type) {
	case ResultFlow:
		at := f.At
		return FlowView{Kind: FlowResult, Action: f.Action, Options: Results(f.Action), PlayerID: f.PlayerID, Time: &at}
	case ReceiverFlow:
		return FlowView{Kind: FlowReceiver, Action: EventPass, PickPlayer: true, PlayerID: f.PasserID}
	case GoalFlow:
		at := f.At
		v := FlowView{Kind: FlowGoal, Action: EventGoal, Step: string(f.Step), PlayerID: f.AuthorID, Time: &at}
		switch f.Step {
		case GoalStepTeam:
			v.Options = []string{OptionOurs, OptionTheirs}
		case GoalStepAuthor:
			v.Options = []string{OptionOwnGoal}
			v.PickPlayer = true
		case GoalStepMethod:
			v.Options = goalMethods(f.Ours)
		}
		return v
	case KickFlow:
		at := f.At
		v := FlowView{Kind: FlowKick, Action: f.Action, Step: string(f.Step), PlayerID: f.KickerID, Time: &at}
		switch f.Step {
		case KickStepTeam:
			v.Options = []string{OptionOurs, OptionTheirs}
		case KickStepKicker:
			v.Options = []string{OptionNoKick}
			v.PickPlayer = true
		case KickStepResult:
			v.Options = Results(f.Action)
		}
		return v
	}
	return FlowView{Kind: FlowIdle}
}

func goalMethods(ours bool) []string {
	if ours {
		return ScoredGoalMethods
	}
	return ConcededGoalMethods
}
