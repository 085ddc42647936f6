package match

// ClockState is the position of the match clock state machine.
type ClockState string

const (
	ClockStopped     ClockState = "stopped"
	ClockRunning     ClockState = "running"
	ClockPaused      ClockState = "paused"
	ClockPeriodEnded ClockState = "periodEnded"
	ClockMatchEnded  ClockState = "matchEnded"
)

// Clock tracks elapsed seconds within the current period.
//
//	stopped -> running <-> paused
//	running|paused -> periodEnded (limit reached or whistle)
//	periodEnded(FIRST) -> running(SECOND)
//	periodEnded(SECOND) -> matchEnded
type Clock struct {
	State        ClockState `json:"state"`
	Period       Period     `json:"period"`
	Seconds      int        `json:"seconds"`
	PeriodLength int        `json:"periodLength"`
}

// NewClock returns a stopped clock at the start of the first period.
func NewClock(periodLength int) Clock {
	if periodLength <= 0 {
		periodLength = DefaultPeriodLength
	}
	return Clock{State: ClockStopped, Period: PeriodFirst, PeriodLength: periodLength}
}

// Running reports whether ticks advance the clock.
func (c *Clock) Running() bool {
	return c.State == ClockRunning
}

// Start begins the first period.
func (c *Clock) Start() error {
	if c.State != ClockStopped {
		return ErrInvalidClockOp
	}
	c.State = ClockRunning
	return nil
}

// Pause stops the clock without ending the period.
func (c *Clock) Pause() error {
	if c.State != ClockRunning {
		return ErrInvalidClockOp
	}
	c.State = ClockPaused
	return nil
}

// Resume restarts a paused clock.
func (c *Clock) Resume() error {
	if c.State != ClockPaused {
		return ErrInvalidClockOp
	}
	c.State = ClockRunning
	return nil
}

// Tick advances one second. It returns false when the clock is not running.
func (c *Clock) Tick() bool {
	if c.State != ClockRunning {
		return false
	}
	c.Seconds++
	if c.Seconds >= c.PeriodLength {
		c.State = ClockPeriodEnded
	}
	return true
}

// EndPeriod closes the current period before the limit is reached.
func (c *Clock) EndPeriod() error {
	switch c.State {
	case ClockRunning, ClockPaused, ClockStopped:
		c.State = ClockPeriodEnded
		return nil
	}
	return ErrInvalidClockOp
}

// NextPeriod leaves half-time and starts the second period running from zero.
func (c *Clock) NextPeriod() error {
	if c.State != ClockPeriodEnded || c.Period != PeriodFirst {
		return ErrInvalidClockOp
	}
	c.Period = PeriodSecond
	c.Seconds = 0
	c.State = ClockRunning
	return nil
}

// End moves the clock into its terminal state.
func (c *Clock) End() {
	c.State = ClockMatchEnded
}
