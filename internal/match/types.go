package match

import (
	"fmt"
	"strings"
	"time"
)

// Period identifies a half of the match. Extra time would continue the sequence.
type Period int

const (
	PeriodFirst  Period = 1
	PeriodSecond Period = 2
)

// DefaultPeriodLength is the fixed 20-minute half used for clock limits and
// for deriving the period from a manually entered time.
const DefaultPeriodLength = 1200

func (p Period) String() string {
	switch p {
	case PeriodFirst:
		return "FIRST"
	case PeriodSecond:
		return "SECOND"
	default:
		return fmt.Sprintf("PERIOD_%d", int(p))
	}
}

// MarshalText encodes the period as FIRST/SECOND.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts FIRST/SECOND (any case) or a bare number.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIRST", "1":
		return PeriodFirst, nil
	case "SECOND", "2":
		return PeriodSecond, nil
	}
	return 0, fmt.Errorf("unknown period %q", s)
}

// PeriodForTime buckets a continuous match time into a half assuming fixed
// 20-minute periods.
func PeriodForTime(seconds int) Period {
	if seconds < DefaultPeriodLength {
		return PeriodFirst
	}
	return PeriodSecond
}

// Possession is the binary ball-control state of the tracked team.
type Possession string

const (
	WithPossession    Possession = "with"
	WithoutPossession Possession = "without"
)

// Complement returns the opposite possession state.
func (p Possession) Complement() Possession {
	if p == WithPossession {
		return WithoutPossession
	}
	return WithPossession
}

func (p Possession) valid() bool {
	return p == WithPossession || p == WithoutPossession
}

// Mode selects between the live clock and operator-entered times.
type Mode string

const (
	ModeRealtime  Mode = "realtime"
	ModePostMatch Mode = "postMatch"
)

// PositionGoalkeeper marks players with goalkeeper capability.
const PositionGoalkeeper = "goalkeeper"

// Player is a roster entry supplied by the roster provider.
type Player struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Nickname     string `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	JerseyNumber int    `json:"jerseyNumber" yaml:"jersey"`
	Position     string `json:"position" yaml:"position"`
	PhotoURL     string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
}

// CanKeepGoal reports goalkeeper capability.
func (p Player) CanKeepGoal() bool {
	return strings.EqualFold(p.Position, PositionGoalkeeper)
}

// DisplayName prefers the nickname.
func (p Player) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

// MatchInfo is the fixture metadata a session is opened for.
type MatchInfo struct {
	ID          string    `json:"id" yaml:"id"`
	TeamID      string    `json:"teamId,omitempty" yaml:"teamId,omitempty"`
	TeamName    string    `json:"teamName,omitempty" yaml:"teamName,omitempty"`
	Opponent    string    `json:"opponent" yaml:"opponent"`
	Competition string    `json:"competition" yaml:"competition"`
	Date        time.Time `json:"date" yaml:"date"`
}

// Stamp is a point on the match clock.
type Stamp struct {
	Time   int    `json:"time"`
	Period Period `json:"period"`
}

// atOrAfter reports whether s is not earlier than other in match order.
func (s Stamp) atOrAfter(other Stamp) bool {
	if s.Period != other.Period {
		return s.Period > other.Period
	}
	return s.Time >= other.Time
}
