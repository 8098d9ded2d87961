package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindIllegalTransition ErrorKind = "ILLEGAL_TRANSITION"
	ErrKindAlreadyTerminal   ErrorKind = "ALREADY_TERMINAL"
	ErrKindPastDeadline      ErrorKind = "PAST_DEADLINE"
	ErrKindUnknownState      ErrorKind = "UNKNOWN_STATE"
)

var (
	// ErrIllegalTransition indicates the requested state has no edge from the current state.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrAlreadyTerminal indicates the entity is in a state with no outgoing edges.
	ErrAlreadyTerminal = errors.New("entity already in terminal state")

	// ErrPastDeadline indicates a graph-legal transition requested inside its lead time.
	ErrPastDeadline = errors.New("transition lead time not met")

	// ErrUnknownState indicates a state value outside the defined enumeration.
	ErrUnknownState = errors.New("unknown state")

	// ErrInvalidRole indicates a viewer role other than patient or doctor.
	ErrInvalidRole = errors.New("invalid viewer role")

	// ErrInvalidSlot indicates a missing appointment time, or one that is not in the future.
	ErrInvalidSlot = errors.New("invalid appointment slot")

	// ErrMalformedEntity indicates a record is missing required fields.
	// This is a collaborator contract violation, not a domain condition.
	ErrMalformedEntity = errors.New("malformed entity")
)

// TransitionError describes why a requested transition was refused.
type TransitionError struct {
	Kind       ErrorKind
	EntityType EntityType
	EntityID   string
	From       string
	To         string
	Message    string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s %s %s -> %s", e.Kind, e.EntityType, e.EntityID, e.From, e.To)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is matches the sentinel for the error's kind. ALREADY_TERMINAL also
// matches ErrIllegalTransition: a terminal state has no edges at all.
func (e *TransitionError) Is(target error) bool {
	switch e.Kind {
	case ErrKindIllegalTransition:
		return target == ErrIllegalTransition
	case ErrKindAlreadyTerminal:
		return target == ErrAlreadyTerminal || target == ErrIllegalTransition
	case ErrKindPastDeadline:
		return target == ErrPastDeadline
	case ErrKindUnknownState:
		return target == ErrUnknownState
	}
	return false
}

// KindOf extracts the ErrorKind from err, or "" if err is not a TransitionError.
func KindOf(err error) ErrorKind {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// UnknownStateError builds the fail-closed error for a value outside the enumeration.
func UnknownStateError(entity EntityType, id, value string) *TransitionError {
	return &TransitionError{
		Kind:       ErrKindUnknownState,
		EntityType: entity,
		EntityID:   id,
		From:       value,
		Message:    fmt.Sprintf("state %q is not defined", value),
	}
}

func malformed(entity EntityType, id, field string) error {
	return fmt.Errorf("%s %q: missing %s: %w", entity, id, field, ErrMalformedEntity)
}

// InvalidRoleError reports role as outside the viewer enumeration.
func InvalidRoleError(role ViewerRole) error {
	return fmt.Errorf("%w %q (want patient or doctor)", ErrInvalidRole, role)
}
