package importer

import (
	"strings"

	"github.com/alexanderramin/careflow/internal/domain"
)

// The backend speaks Spanish state names. English names are accepted as
// well so exported snapshots round-trip.
var appointmentStateNames = map[string]domain.AppointmentState{
	"PENDIENTE":    domain.AppointmentPending,
	"CONFIRMADA":   domain.AppointmentConfirmed,
	"PROGRAMADA":   domain.AppointmentScheduled,
	"COMPLETADA":   domain.AppointmentCompleted,
	"CANCELADA":    domain.AppointmentCancelled,
	"RECHAZADA":    domain.AppointmentRejected,
	"REPROGRAMADA": domain.AppointmentRescheduled,
}

var recommendationStateNames = map[string]domain.RecommendationState{
	"PENDIENTE_APROBACION": domain.RecommendationPendingApproval,
	"APROBADA":             domain.RecommendationApproved,
	"MODIFICADA":           domain.RecommendationModified,
	"RECHAZADA":            domain.RecommendationRejected,
	"ACTIVA":               domain.RecommendationActive,
}

var priorityNames = map[string]domain.Priority{
	"BAJA":    domain.PriorityLow,
	"MEDIA":   domain.PriorityMedium,
	"ALTA":    domain.PriorityHigh,
	"URGENTE": domain.PriorityUrgent,
}

var sourceNames = map[string]domain.Source{
	"SISTEMA": domain.SourceSystem,
	"IA":      domain.SourceAI,
}

var categoryNames = map[string]domain.RecommendationCategory{
	"EJERCICIO":   domain.CategoryExercise,
	"EJERCICIOS":  domain.CategoryExercise,
	"CONSEJO":     domain.CategoryAdvice,
	"CONSEJOS":    domain.CategoryAdvice,
	"MEDICACION":  domain.CategoryMedication,
	"MEDICAMENTO": domain.CategoryMedication,
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseAppointmentState maps a wire state onto the domain enumeration.
func ParseAppointmentState(s string) (domain.AppointmentState, bool) {
	n := normalize(s)
	if st, ok := appointmentStateNames[n]; ok {
		return st, true
	}
	st := domain.AppointmentState(n)
	return st, st.IsValid()
}

func ParseRecommendationState(s string) (domain.RecommendationState, bool) {
	n := normalize(s)
	if st, ok := recommendationStateNames[n]; ok {
		return st, true
	}
	st := domain.RecommendationState(n)
	return st, st.IsValid()
}

func ParsePriority(s string) (domain.Priority, bool) {
	n := normalize(s)
	if p, ok := priorityNames[n]; ok {
		return p, true
	}
	p := domain.Priority(n)
	return p, p.IsValid()
}

func ParseSource(s string) (domain.Source, bool) {
	n := normalize(s)
	if src, ok := sourceNames[n]; ok {
		return src, true
	}
	src := domain.Source(n)
	return src, src.IsValid()
}

// ParseCategory is lenient: categories are descriptive, not workflow states.
func ParseCategory(s string) domain.RecommendationCategory {
	n := normalize(s)
	if c, ok := categoryNames[n]; ok {
		return c
	}
	switch domain.RecommendationCategory(n) {
	case domain.CategoryExercise, domain.CategoryAdvice, domain.CategoryMedication:
		return domain.RecommendationCategory(n)
	}
	return domain.CategoryGeneral
}

// ToWireAppointmentState returns the backend name for s.
func ToWireAppointmentState(s domain.AppointmentState) string {
	for wire, st := range appointmentStateNames {
		if st == s {
			return wire
		}
	}
	return string(s)
}

// ToWireRecommendationState returns the backend name for s.
func ToWireRecommendationState(s domain.RecommendationState) string {
	for wire, st := range recommendationStateNames {
		if st == s {
			return wire
		}
	}
	return string(s)
}
