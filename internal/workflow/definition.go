// Package workflow holds the status tables, transition checks, view
// classification and aggregate math shared by every screen. Everything here
// is a pure function of its arguments; the reference time is always passed in.
package workflow

import "github.com/alexanderramin/careflow/internal/domain"

// appointmentEdges is the single source of truth for appointment transitions.
// A state without an entry is terminal.
var appointmentEdges = map[domain.AppointmentState][]domain.AppointmentState{
	domain.AppointmentPending: {
		domain.AppointmentConfirmed,
		domain.AppointmentRejected,
		domain.AppointmentCancelled,
	},
	domain.AppointmentConfirmed: {
		domain.AppointmentScheduled,
		domain.AppointmentCompleted,
		domain.AppointmentCancelled,
	},
	domain.AppointmentScheduled: {
		domain.AppointmentConfirmed,
		domain.AppointmentCompleted,
		domain.AppointmentCancelled,
		domain.AppointmentRescheduled,
	},
	// Rescheduled visits re-enter the confirmation cycle.
	domain.AppointmentRescheduled: {
		domain.AppointmentConfirmed,
		domain.AppointmentCancelled,
	},
}

var recommendationEdges = map[domain.RecommendationState][]domain.RecommendationState{
	domain.RecommendationPendingApproval: {
		domain.RecommendationApproved,
		domain.RecommendationModified,
		domain.RecommendationRejected,
	},
	domain.RecommendationApproved: {domain.RecommendationActive},
	domain.RecommendationModified: {domain.RecommendationActive},
}

// IsTransitionLegal reports whether the static graph for entityType has an
// edge from -> to. Unknown entity types or states are never legal.
func IsTransitionLegal(entityType domain.EntityType, from, to string) bool {
	switch entityType {
	case domain.EntityAppointment:
		return AppointmentTransitionLegal(domain.AppointmentState(from), domain.AppointmentState(to))
	case domain.EntityRecommendation:
		return RecommendationTransitionLegal(domain.RecommendationState(from), domain.RecommendationState(to))
	default:
		return false
	}
}

func AppointmentTransitionLegal(from, to domain.AppointmentState) bool {
	for _, s := range appointmentEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func RecommendationTransitionLegal(from, to domain.RecommendationState) bool {
	for _, s := range recommendationEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether state is a defined state with no outgoing edges.
// Unknown states are not terminal; callers check validity first.
func IsTerminal(entityType domain.EntityType, state string) bool {
	switch entityType {
	case domain.EntityAppointment:
		s := domain.AppointmentState(state)
		return s.IsValid() && len(appointmentEdges[s]) == 0
	case domain.EntityRecommendation:
		s := domain.RecommendationState(state)
		return s.IsValid() && len(recommendationEdges[s]) == 0
	default:
		return false
	}
}

// Successors returns the legal target states from state, in table order.
// The returned slice is a copy.
func Successors(entityType domain.EntityType, state string) []string {
	var out []string
	switch entityType {
	case domain.EntityAppointment:
		for _, s := range appointmentEdges[domain.AppointmentState(state)] {
			out = append(out, string(s))
		}
	case domain.EntityRecommendation:
		for _, s := range recommendationEdges[domain.RecommendationState(state)] {
			out = append(out, string(s))
		}
	}
	return out
}
