package domain

import (
	"strconv"
	"strings"
	"time"
)

type Appointment struct {
	ID            string
	SubjectID     string // patient
	CounterpartID string // doctor
	ScheduledAt   time.Time
	State         AppointmentState
	Reason        string
	Notes         string
	CreatedAt     time.Time
}

// InitialAppointmentState returns the state a new appointment starts in.
// Counterparts that gate on confirmation receive requests as PENDING.
func InitialAppointmentState(confirmationGated bool) AppointmentState {
	if confirmationGated {
		return AppointmentPending
	}
	return AppointmentScheduled
}

func (a *Appointment) IsTerminal() bool {
	switch a.State {
	case AppointmentCompleted, AppointmentCancelled, AppointmentRejected:
		return true
	default:
		return false
	}
}

// Validate checks that the record carries every field the workflow reads.
func (a *Appointment) Validate() error {
	if a.ID == "" {
		return malformed(EntityAppointment, a.ID, "id")
	}
	if a.ScheduledAt.IsZero() {
		return malformed(EntityAppointment, a.ID, "scheduledAt")
	}
	if a.State == "" {
		return malformed(EntityAppointment, a.ID, "state")
	}
	if !a.State.IsValid() {
		return UnknownStateError(EntityAppointment, a.ID, string(a.State))
	}
	if a.CreatedAt.IsZero() {
		return malformed(EntityAppointment, a.ID, "createdAt")
	}
	return nil
}

// WithState returns a copy of the appointment in the given state.
func (a Appointment) WithState(s AppointmentState) Appointment {
	a.State = s
	return a
}

// CompareIDs orders opaque ids: numerically when both are integers,
// lexically otherwise. Returns -1, 0 or 1.
func CompareIDs(a, b string) int {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
