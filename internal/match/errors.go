package match

import (
	"errors"
	"fmt"
)

// Precondition violations. These abort the action without mutating the session.
var (
	ErrMatchNotStarted     = errors.New("match has not started")
	ErrMatchEnded          = errors.New("match has ended")
	ErrClockStopped        = errors.New("clock is stopped")
	ErrNoPlayerSelected    = errors.New("select a player first")
	ErrManualTimeRequired  = errors.New("enter a valid time")
	ErrInvalidManualTime   = errors.New("invalid manual time")
	ErrNotGoalkeeper       = errors.New("selected player is not the goalkeeper")
	ErrFreeKickLocked      = errors.New("free kick requires 5 accumulated fouls")
	ErrNoOpenFlow          = errors.New("no action is open")
	ErrInvalidOption       = errors.New("option not available at this step")
	ErrNothingToConfirm    = errors.New("nothing to confirm")
	ErrUnknownAction       = errors.New("unknown action")
	ErrPlayerNotOnCourt    = errors.New("player is not on court")
	ErrPlayerNotOnBench    = errors.New("player is not on the bench")
	ErrUnknownPlayer       = errors.New("unknown player")
	ErrExpulsionLocked     = errors.New("expulsion replacement not yet allowed")
	ErrNoExpulsion         = errors.New("team is not short-handed")
	ErrEventNotFound       = errors.New("event not found")
	ErrInvalidClockOp      = errors.New("clock operation not allowed in current state")
	ErrManualMode          = errors.New("clock is not used in post-match mode")
	ErrRealtimeMode        = errors.New("manual time is only used in post-match mode")
	ErrLineupAlreadyLocked = errors.New("lineup already confirmed")
)

// ValidationError reports an invalid lineup or correction. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
