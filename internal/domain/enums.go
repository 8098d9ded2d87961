package domain

type EntityType string

const (
	EntityAppointment    EntityType = "appointment"
	EntityRecommendation EntityType = "recommendation"
)

type AppointmentState string

const (
	AppointmentPending     AppointmentState = "PENDING"
	AppointmentConfirmed   AppointmentState = "CONFIRMED"
	AppointmentScheduled   AppointmentState = "SCHEDULED"
	AppointmentCompleted   AppointmentState = "COMPLETED"
	AppointmentCancelled   AppointmentState = "CANCELLED"
	AppointmentRejected    AppointmentState = "REJECTED"
	AppointmentRescheduled AppointmentState = "RESCHEDULED"
)

// AppointmentStates lists every appointment state in display order.
var AppointmentStates = []AppointmentState{
	AppointmentPending,
	AppointmentConfirmed,
	AppointmentScheduled,
	AppointmentRescheduled,
	AppointmentCompleted,
	AppointmentCancelled,
	AppointmentRejected,
}

func (s AppointmentState) IsValid() bool {
	for _, v := range AppointmentStates {
		if v == s {
			return true
		}
	}
	return false
}

type RecommendationState string

const (
	RecommendationPendingApproval RecommendationState = "PENDING_APPROVAL"
	RecommendationApproved        RecommendationState = "APPROVED"
	RecommendationModified        RecommendationState = "MODIFIED"
	RecommendationRejected        RecommendationState = "REJECTED"
	RecommendationActive          RecommendationState = "ACTIVE"
)

// RecommendationStates lists every recommendation state in display order.
var RecommendationStates = []RecommendationState{
	RecommendationPendingApproval,
	RecommendationApproved,
	RecommendationModified,
	RecommendationActive,
	RecommendationRejected,
}

func (s RecommendationState) IsValid() bool {
	for _, v := range RecommendationStates {
		if v == s {
			return true
		}
	}
	return false
}

// VisibleToPatient reports whether a recommendation in this state may be
// shown to the patient it belongs to.
func (s RecommendationState) VisibleToPatient() bool {
	switch s {
	case RecommendationActive, RecommendationApproved, RecommendationModified:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists every priority from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank returns the ordinal of the priority (LOW=0 .. URGENT=3), or -1 if unknown.
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}

func (p Priority) IsValid() bool { return p.Rank() >= 0 }

type Source string

const (
	SourceSystem Source = "SYSTEM"
	SourceAI     Source = "AI"
)

func (s Source) IsValid() bool {
	return s == SourceSystem || s == SourceAI
}

type RecommendationCategory string

const (
	CategoryExercise   RecommendationCategory = "EXERCISE"
	CategoryAdvice     RecommendationCategory = "ADVICE"
	CategoryMedication RecommendationCategory = "MEDICATION"
	CategoryGeneral    RecommendationCategory = "GENERAL"
)

type ViewerRole string

const (
	RolePatient ViewerRole = "patient"
	RoleDoctor  ViewerRole = "doctor"
)

func (r ViewerRole) IsValid() bool {
	return r == RolePatient || r == RoleDoctor
}

type Action string

const (
	ActionConfirm       Action = "confirm"
	ActionReject        Action = "reject"
	ActionCancel        Action = "cancel"
	ActionComplete      Action = "complete"
	ActionReschedule    Action = "reschedule"
	ActionApprove       Action = "approve"
	ActionModify        Action = "modify"
	ActionMarkCompleted Action = "markCompleted"
)

type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendStable    Trend = "STABLE"
	TrendWorsening Trend = "WORSENING"
)

type SeverityLevel string

const (
	SeverityMild     SeverityLevel = "MILD"
	SeverityModerate SeverityLevel = "MODERATE"
	SeveritySevere   SeverityLevel = "SEVERE"
)

// SeverityLevelFor buckets a rounded 1-10 severity average.
func SeverityLevelFor(avg int) SeverityLevel {
	switch {
	case avg <= 3:
		return SeverityMild
	case avg <= 7:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

type SymptomDimension string

const (
	DimensionTremor       SymptomDimension = "tremor"
	DimensionRigidity     SymptomDimension = "rigidity"
	DimensionBradykinesia SymptomDimension = "bradykinesia"
	DimensionBalance      SymptomDimension = "balance"
)

// SymptomDimensions is the canonical dimension order. Tie-breaks between
// dimensions always prefer the earlier entry.
var SymptomDimensions = []SymptomDimension{
	DimensionTremor,
	DimensionRigidity,
	DimensionBradykinesia,
	DimensionBalance,
}
