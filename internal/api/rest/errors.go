package rest

import (
	"errors"
	"net/http"

	"github.com/fortuna/quadra/internal/identity"
	"github.com/fortuna/quadra/internal/live"
	"github.com/fortuna/quadra/internal/match"
	"github.com/fortuna/quadra/internal/store"
)

var preconditions = []error{
	match.ErrMatchNotStarted,
	match.ErrMatchEnded,
	match.ErrClockStopped,
	match.ErrNoPlayerSelected,
	match.ErrManualTimeRequired,
	match.ErrNotGoalkeeper,
	match.ErrFreeKickLocked,
	match.ErrNoOpenFlow,
	match.ErrNothingToConfirm,
	match.ErrPlayerNotOnCourt,
	match.ErrPlayerNotOnBench,
	match.ErrExpulsionLocked,
	match.ErrNoExpulsion,
	match.ErrInvalidClockOp,
	match.ErrManualMode,
	match.ErrRealtimeMode,
	match.ErrLineupAlreadyLocked,
}

var invalidInputs = []error{
	match.ErrInvalidManualTime,
	match.ErrInvalidOption,
	match.ErrUnknownAction,
	match.ErrUnknownPlayer,
	errBadRequest,
}

var notFound = []error{
	live.ErrSessionNotFound,
	match.ErrEventNotFound,
	store.ErrNotFound,
}

var errBadRequest = errors.New("malformed request")

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var verr *match.ValidationError
	switch {
	case errors.Is(err, identity.ErrMissingToken), errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case isAny(err, notFound):
		return http.StatusNotFound
	case errors.As(err, &verr), isAny(err, invalidInputs):
		return http.StatusUnprocessableEntity
	case isAny(err, preconditions):
		return http.StatusConflict
	case errors.Is(err, live.ErrGateway):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func messageFor(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusUnprocessableEntity:
		return "Invalid input"
	case http.StatusConflict:
		return "Action not allowed now"
	case http.StatusBadGateway:
		return "Failed to save match"
	}
	return "Internal server error"
}

// fail writes err with its mapped status.
func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	respondError(w, status, messageFor(status), err)
}
