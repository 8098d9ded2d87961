package app

import (
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/workflow"
)

type BoardRequest struct {
	Now           *time.Time
	Role          domain.ViewerRole
	SubjectID     string
	CounterpartID string
	// Filter is a bucket name (all, today, pending, upcoming) or a state.
	Filter string
}

func NewBoardRequest(role domain.ViewerRole) BoardRequest {
	return BoardRequest{Role: role, Filter: "all"}
}

// AppointmentView pairs an appointment with what the viewer may do to it.
type AppointmentView struct {
	Appointment domain.Appointment
	Actions     []domain.Action
	Today       bool
}

type BoardResponse struct {
	GeneratedAt time.Time
	Role        domain.ViewerRole
	Filter      string
	Items       []AppointmentView
	Stats       workflow.AppointmentStats
	Next        *AppointmentView
}

type BoardErrorCode string

const (
	BoardErrInvalidRole   BoardErrorCode = "INVALID_ROLE"
	BoardErrUnknownFilter BoardErrorCode = "UNKNOWN_FILTER"
	BoardErrDataIntegrity BoardErrorCode = "DATA_INTEGRITY"
)

type BoardError struct {
	Code    BoardErrorCode
	Message string
}

func (e *BoardError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// TransitionRequest names the target either by state or by action. When
// both are set the action wins.
type TransitionRequest struct {
	ID     string
	To     domain.AppointmentState
	Action domain.Action
	Role   domain.ViewerRole
	Note   string
	Now    *time.Time
	// NewTime is the proposed slot. Reschedules require one after Now; other
	// transitions ignore it.
	NewTime *time.Time
}

type CheckResult struct {
	Appointment domain.Appointment
	From        domain.AppointmentState
	To          domain.AppointmentState
	// HoursUntil is the lead time left before the appointment at check time.
	HoursUntil float64
}

type TransitionResponse struct {
	Appointment domain.Appointment
	From        domain.AppointmentState
	To          domain.AppointmentState
	Offline     bool
	LogID       string
}

// CreateAppointmentRequest books a new appointment for a patient with a doctor.
type CreateAppointmentRequest struct {
	SubjectID     string
	CounterpartID string
	At            time.Time
	Reason        string
	Notes         string
	Role          domain.ViewerRole
	Now           *time.Time
}

type CreateAppointmentResponse struct {
	Appointment domain.Appointment
	Offline     bool
	LogID       string
}
