package testutil

import (
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/google/uuid"
)

// Appointment options
type AppointmentOption func(*domain.Appointment)

func WithAppointmentState(s domain.AppointmentState) AppointmentOption {
	return func(a *domain.Appointment) {
		a.State = s
	}
}

func WithScheduledAt(t time.Time) AppointmentOption {
	return func(a *domain.Appointment) {
		a.ScheduledAt = t
	}
}

func WithSubject(id string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.SubjectID = id
	}
}

func WithCounterpart(id string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.CounterpartID = id
	}
}

func WithReason(reason string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.Reason = reason
	}
}

// NewTestAppointment returns a PENDING appointment two days out for
// patient "p1" with doctor "d1".
func NewTestAppointment(id string, opts ...AppointmentOption) *domain.Appointment {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Appointment{
		ID:            id,
		SubjectID:     "p1",
		CounterpartID: "d1",
		ScheduledAt:   now.Add(48 * time.Hour),
		State:         domain.AppointmentPending,
		Reason:        "control",
		CreatedAt:     now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Recommendation options
type RecommendationOption func(*domain.Recommendation)

func WithRecommendationState(s domain.RecommendationState) RecommendationOption {
	return func(r *domain.Recommendation) {
		r.State = s
	}
}

func WithPriority(p domain.Priority) RecommendationOption {
	return func(r *domain.Recommendation) {
		r.Priority = p
	}
}

func WithSource(s domain.Source) RecommendationOption {
	return func(r *domain.Recommendation) {
		r.Source = s
		r.State = domain.InitialRecommendationState(s)
	}
}

func WithCompleted(done bool) RecommendationOption {
	return func(r *domain.Recommendation) {
		r.Completed = done
	}
}

func WithRecommendationSubject(id string) RecommendationOption {
	return func(r *domain.Recommendation) {
		r.SubjectID = id
	}
}

// NewTestRecommendation returns an ACTIVE, MEDIUM, system-generated
// recommendation for patient "p1".
func NewTestRecommendation(id, title string, opts ...RecommendationOption) *domain.Recommendation {
	r := &domain.Recommendation{
		ID:        id,
		SubjectID: "p1",
		Title:     title,
		Category:  domain.CategoryGeneral,
		State:     domain.RecommendationActive,
		Priority:  domain.PriorityMedium,
		Source:    domain.SourceSystem,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Symptom options
type SymptomOption func(*domain.SymptomSample)

func WithSeverities(tremor, rigidity, bradykinesia, balance int) SymptomOption {
	return func(s *domain.SymptomSample) {
		s.Tremor = tremor
		s.Rigidity = rigidity
		s.Bradykinesia = bradykinesia
		s.Balance = balance
	}
}

func WithRecordedAt(t time.Time) SymptomOption {
	return func(s *domain.SymptomSample) {
		s.RecordedAt = t
	}
}

func WithSymptomID(id string) SymptomOption {
	return func(s *domain.SymptomSample) {
		s.ID = id
	}
}

// NewTestSymptom returns a sample with every dimension at 5, recorded an
// hour ago.
func NewTestSymptom(subjectID string, opts ...SymptomOption) *domain.SymptomSample {
	s := &domain.SymptomSample{
		ID:           uuid.New().String(),
		SubjectID:    subjectID,
		Tremor:       5,
		Rigidity:     5,
		Bradykinesia: 5,
		Balance:      5,
		RecordedAt:   time.Now().UTC().Add(-time.Hour).Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
