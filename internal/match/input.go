package match

// Input kinds of InputSpec.
const (
	KindPress   = "press"
	KindSelect  = "select"
	KindChoose  = "choose"
	KindArm     = "arm"
	KindConfirm = "confirm"
	KindCancel  = "cancel"
)

// InputSpec is the wire form of an Input, discriminated by Kind.
type InputSpec struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Action   EventType `json:"action,omitempty" yaml:"action,omitempty"`
	PlayerID string    `json:"playerId,omitempty" yaml:"player,omitempty"`
	Option   string    `json:"option,omitempty" yaml:"option,omitempty"`
	Zone     Zone      `json:"zone,omitempty" yaml:"zone,omitempty"`
}

// Input converts the spec into the Input it names.
func (s InputSpec) Input() (Input, error) {
	switch s.Kind {
	case KindPress:
		if s.Action == "" {
			return nil, invalid("action", "required for %s", s.Kind)
		}
		return PressAction{Action: s.Action}, nil
	case KindSelect:
		if s.PlayerID == "" {
			return nil, invalid("playerId", "required for %s", s.Kind)
		}
		return SelectPlayer{PlayerID: s.PlayerID}, nil
	case KindChoose:
		if s.Option == "" {
			return nil, invalid("option", "required for %s", s.Kind)
		}
		return ChooseOption{Option: s.Option}, nil
	case KindArm:
		return ArmSector{Zone: s.Zone}, nil
	case KindConfirm:
		return Confirm{}, nil
	case KindCancel:
		return Cancel{}, nil
	}
	return nil, invalid("kind", "unknown input kind %q", s.Kind)
}
