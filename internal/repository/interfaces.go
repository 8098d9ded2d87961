package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
)

// ErrNotFound is returned when a record is not in the mirror.
var ErrNotFound = errors.New("not found")

// AppointmentFilter narrows List. Empty fields match everything.
type AppointmentFilter struct {
	SubjectID     string
	CounterpartID string
}

type AppointmentRepo interface {
	Upsert(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error)
}

type RecommendationRepo interface {
	Upsert(ctx context.Context, r *domain.Recommendation) error
	GetByID(ctx context.Context, id string) (*domain.Recommendation, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Recommendation, error)
	List(ctx context.Context) ([]domain.Recommendation, error)
}

type SymptomRepo interface {
	Upsert(ctx context.Context, s *domain.SymptomSample) error
	// ListBySubject returns samples recorded in [since, until], oldest
	// first. A zero bound leaves that side open.
	ListBySubject(ctx context.Context, subjectID string, since, until time.Time) ([]domain.SymptomSample, error)
	ListLocal(ctx context.Context) ([]domain.SymptomSample, error)
	Delete(ctx context.Context, id string) error
}

type TransitionLogRepo interface {
	Append(ctx context.Context, rec *domain.TransitionRecord) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.TransitionRecord, error)
}
