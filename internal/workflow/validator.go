package workflow

import (
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
)

// Config holds the tunable thresholds of the workflow.
type Config struct {
	CancelLeadHours     float64
	RescheduleLeadHours float64
	TrendEpsilon        float64
}

func DefaultConfig() Config {
	return Config{
		CancelLeadHours:     2,
		RescheduleLeadHours: 4,
		TrendEpsilon:        0.5,
	}
}

// ValidateAppointmentTransition decides whether a can move to the requested
// state at now. It returns nil or a *domain.TransitionError. Checks run in
// order: unknown state, terminal, graph edge, lead time.
func ValidateAppointmentTransition(a domain.Appointment, to domain.AppointmentState, now time.Time, cfg Config) error {
	if err := checkAppointmentGraph(a, to); err != nil {
		return err
	}
	switch to {
	case domain.AppointmentCancelled:
		return checkLeadTime(a, to, now, cfg.CancelLeadHours, "cancellation")
	case domain.AppointmentRescheduled:
		return checkLeadTime(a, to, now, cfg.RescheduleLeadHours, "reschedule")
	}
	return nil
}

// ValidateAppointmentAction resolves a user action to its target state and
// validates it. Reschedule lead time applies whichever edge the action takes.
func ValidateAppointmentAction(a domain.Appointment, action domain.Action, now time.Time, cfg Config) (domain.AppointmentState, error) {
	if !a.State.IsValid() {
		return "", domain.UnknownStateError(domain.EntityAppointment, a.ID, string(a.State))
	}
	to, ok := AppointmentActionTarget(a.State, action)
	if !ok {
		if a.IsTerminal() {
			return "", terminalError(domain.EntityAppointment, a.ID, string(a.State), string(action))
		}
		return "", &domain.TransitionError{
			Kind:       domain.ErrKindIllegalTransition,
			EntityType: domain.EntityAppointment,
			EntityID:   a.ID,
			From:       string(a.State),
			To:         string(action),
			Message:    fmt.Sprintf("action %q is not available", action),
		}
	}
	if err := ValidateAppointmentTransition(a, to, now, cfg); err != nil {
		return to, err
	}
	if action == domain.ActionReschedule && to != domain.AppointmentRescheduled {
		if err := checkLeadTime(a, to, now, cfg.RescheduleLeadHours, "reschedule"); err != nil {
			return to, err
		}
	}
	return to, nil
}

// ValidateRecommendationTransition decides whether r can move to the requested
// state. Recommendations carry no timing constraints.
func ValidateRecommendationTransition(r domain.Recommendation, to domain.RecommendationState) error {
	if !r.State.IsValid() {
		return domain.UnknownStateError(domain.EntityRecommendation, r.ID, string(r.State))
	}
	if !to.IsValid() {
		return domain.UnknownStateError(domain.EntityRecommendation, r.ID, string(to))
	}
	if r.IsTerminal() {
		return terminalError(domain.EntityRecommendation, r.ID, string(r.State), string(to))
	}
	if !RecommendationTransitionLegal(r.State, to) {
		return illegalError(domain.EntityRecommendation, r.ID, string(r.State), string(to))
	}
	return nil
}

func checkAppointmentGraph(a domain.Appointment, to domain.AppointmentState) error {
	if !a.State.IsValid() {
		return domain.UnknownStateError(domain.EntityAppointment, a.ID, string(a.State))
	}
	if !to.IsValid() {
		return domain.UnknownStateError(domain.EntityAppointment, a.ID, string(to))
	}
	if a.IsTerminal() {
		return terminalError(domain.EntityAppointment, a.ID, string(a.State), string(to))
	}
	if !AppointmentTransitionLegal(a.State, to) {
		return illegalError(domain.EntityAppointment, a.ID, string(a.State), string(to))
	}
	return nil
}

// checkLeadTime requires (scheduledAt - now) >= minHours. The boundary is legal.
func checkLeadTime(a domain.Appointment, to domain.AppointmentState, now time.Time, minHours float64, what string) error {
	hours := a.ScheduledAt.Sub(now).Hours()
	if hours >= minHours {
		return nil
	}
	return &domain.TransitionError{
		Kind:       domain.ErrKindPastDeadline,
		EntityType: domain.EntityAppointment,
		EntityID:   a.ID,
		From:       string(a.State),
		To:         string(to),
		Message:    fmt.Sprintf("%s needs %.0fh notice, %.2fh left", what, minHours, hours),
	}
}

func terminalError(entity domain.EntityType, id, from, to string) error {
	return &domain.TransitionError{
		Kind:       domain.ErrKindAlreadyTerminal,
		EntityType: entity,
		EntityID:   id,
		From:       from,
		To:         to,
		Message:    fmt.Sprintf("%s is terminal", from),
	}
}

func illegalError(entity domain.EntityType, id, from, to string) error {
	return &domain.TransitionError{
		Kind:       domain.ErrKindIllegalTransition,
		EntityType: entity,
		EntityID:   id,
		From:       from,
		To:         to,
	}
}
