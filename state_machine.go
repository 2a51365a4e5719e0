package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_SESSION_TRANSITION"

// ErrInvalidTransition is returned when a requested session status
// change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// SessionStatus is the authentication status of the session.
type SessionStatus string

const (
	StatusAnonymous     SessionStatus = "anonymous"
	StatusAuthenticated SessionStatus = "authenticated"
)

// sessionStateMachine guards session status changes. The graph is
// small on purpose: anonymous and authenticated, reachable from each
// other, with self-transitions treated as no-ops so bootstrap can
// settle an already-anonymous session.
type sessionStateMachine struct {
	current     SessionStatus
	transitions map[SessionStatus]map[SessionStatus]struct{}
}

func newSessionStateMachine() *sessionStateMachine {
	return &sessionStateMachine{
		current: StatusAnonymous,
		transitions: map[SessionStatus]map[SessionStatus]struct{}{
			StatusAnonymous: {
				StatusAuthenticated: {},
			},
			StatusAuthenticated: {
				StatusAnonymous: {},
			},
		},
	}
}

func (sm *sessionStateMachine) Current() SessionStatus {
	return sm.current
}

func (sm *sessionStateMachine) transition(target SessionStatus) error {
	if target == "" {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "target status is empty",
		})
	}

	if sm.current == target {
		return nil
	}

	if !sm.canTransition(sm.current, target) {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": sm.current,
			"to":   target,
		})
	}

	sm.current = target
	return nil
}

func (sm *sessionStateMachine) canTransition(from, to SessionStatus) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
