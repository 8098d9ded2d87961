package workflow

import "github.com/alexanderramin/careflow/internal/domain"

// appointmentActions is the doctor-side action list per state. Order is the
// order buttons are rendered in.
var appointmentActions = map[domain.AppointmentState][]domain.Action{
	domain.AppointmentPending:     {domain.ActionConfirm, domain.ActionReject, domain.ActionCancel},
	domain.AppointmentConfirmed:   {domain.ActionComplete, domain.ActionCancel, domain.ActionReschedule},
	domain.AppointmentScheduled:   {domain.ActionConfirm, domain.ActionComplete, domain.ActionCancel, domain.ActionReschedule},
	domain.AppointmentRescheduled: {domain.ActionConfirm, domain.ActionCancel},
}

// patientAppointmentActions is the subset a patient may trigger on their own visits.
var patientAppointmentActions = map[domain.Action]bool{
	domain.ActionCancel:     true,
	domain.ActionReschedule: true,
}

// AppointmentActions returns the ordered actions a viewer may take on an
// appointment in state. Terminal states yield an empty list; an unknown role
// gets nothing.
func AppointmentActions(state domain.AppointmentState, role domain.ViewerRole) ([]domain.Action, error) {
	if !role.IsValid() {
		return nil, domain.InvalidRoleError(role)
	}
	if !state.IsValid() {
		return nil, domain.UnknownStateError(domain.EntityAppointment, "", string(state))
	}
	out := []domain.Action{}
	for _, a := range appointmentActions[state] {
		if role == domain.RolePatient && !patientAppointmentActions[a] {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// AppointmentActionTarget maps an action to the edge it takes from state.
// Rescheduling a confirmed visit moves it back to SCHEDULED; from SCHEDULED it
// lands in RESCHEDULED.
func AppointmentActionTarget(state domain.AppointmentState, action domain.Action) (domain.AppointmentState, bool) {
	var to domain.AppointmentState
	switch action {
	case domain.ActionConfirm:
		to = domain.AppointmentConfirmed
	case domain.ActionReject:
		to = domain.AppointmentRejected
	case domain.ActionCancel:
		to = domain.AppointmentCancelled
	case domain.ActionComplete:
		to = domain.AppointmentCompleted
	case domain.ActionReschedule:
		if state == domain.AppointmentConfirmed {
			to = domain.AppointmentScheduled
		} else {
			to = domain.AppointmentRescheduled
		}
	default:
		return "", false
	}
	if !AppointmentTransitionLegal(state, to) {
		return "", false
	}
	return to, true
}

// RecommendationActions returns the actions a viewer may take on r.
func RecommendationActions(r domain.Recommendation, role domain.ViewerRole) ([]domain.Action, error) {
	if !role.IsValid() {
		return nil, domain.InvalidRoleError(role)
	}
	if !r.State.IsValid() {
		return nil, domain.UnknownStateError(domain.EntityRecommendation, r.ID, string(r.State))
	}
	out := []domain.Action{}
	switch role {
	case domain.RoleDoctor:
		if r.State == domain.RecommendationPendingApproval {
			out = append(out, domain.ActionApprove, domain.ActionModify, domain.ActionReject)
		}
	case domain.RolePatient:
		if r.VisibleToPatient() && !r.Completed {
			out = append(out, domain.ActionMarkCompleted)
		}
	}
	return out, nil
}

// RecommendationActionTarget maps a doctor review action to its target state.
// markCompleted has no target: completion is orthogonal to state.
func RecommendationActionTarget(action domain.Action) (domain.RecommendationState, bool) {
	switch action {
	case domain.ActionApprove:
		return domain.RecommendationApproved, true
	case domain.ActionModify:
		return domain.RecommendationModified, true
	case domain.ActionReject:
		return domain.RecommendationRejected, true
	default:
		return "", false
	}
}

// AvailableActions is the state-only entry point used by generic views.
// For recommendations the completed flag is unknown here and assumed false.
func AvailableActions(entityType domain.EntityType, state string, role domain.ViewerRole) ([]domain.Action, error) {
	switch entityType {
	case domain.EntityAppointment:
		return AppointmentActions(domain.AppointmentState(state), role)
	case domain.EntityRecommendation:
		return RecommendationActions(domain.Recommendation{State: domain.RecommendationState(state)}, role)
	default:
		return nil, domain.UnknownStateError(entityType, "", state)
	}
}
