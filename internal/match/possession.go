package match

// PossessionTracker splits elapsed clock seconds between the two possession states.
type PossessionTracker struct {
	State   Possession `json:"state"`
	With    int        `json:"secondsWith"`
	Without int        `json:"secondsWithout"`
}

// Accrue credits elapsed seconds to the active counter.
func (p *PossessionTracker) Accrue(seconds int) {
	if seconds <= 0 {
		return
	}
	if p.State == WithPossession {
		p.With += seconds
	} else {
		p.Without += seconds
	}
}

// Set changes the active state. Counters are never rewound.
func (p *PossessionTracker) Set(state Possession) {
	p.State = state
}

// Toggle flips the active state.
func (p *PossessionTracker) Toggle() {
	p.State = p.State.Complement()
}
