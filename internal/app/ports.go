package app

import (
	"context"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
)

type AppointmentBoardUseCase interface {
	Board(ctx context.Context, req BoardRequest) (*BoardResponse, error)
}

type AppointmentBookingUseCase interface {
	Create(ctx context.Context, req CreateAppointmentRequest) (*CreateAppointmentResponse, error)
}

type AppointmentTransitionUseCase interface {
	// Check validates a transition without applying it.
	Check(ctx context.Context, req TransitionRequest) (*CheckResult, error)
	Transition(ctx context.Context, req TransitionRequest) (*TransitionResponse, error)
	Actions(ctx context.Context, id string, role domain.ViewerRole) ([]domain.Action, error)
	History(ctx context.Context, id string) ([]domain.TransitionRecord, error)
}

type RecommendationUseCase interface {
	Feed(ctx context.Context, req FeedRequest) (*FeedResponse, error)
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)
	MarkCompleted(ctx context.Context, id string, role domain.ViewerRole) (*domain.Recommendation, error)
}

type SymptomUseCase interface {
	Record(ctx context.Context, req RecordSymptomRequest) (*domain.SymptomSample, error)
	Stats(ctx context.Context, req SymptomWindowRequest) (*SymptomStatsResponse, error)
	Trend(ctx context.Context, req SymptomWindowRequest) (*TrendResponse, error)
}

type DashboardUseCase interface {
	Patient(ctx context.Context, req DashboardRequest) (*PatientDashboard, error)
	Doctor(ctx context.Context, req DashboardRequest) (*DoctorDashboard, error)
}

type SyncUseCase interface {
	// Sync uploads locally recorded samples, then pulls the backend's lists.
	Sync(ctx context.Context, patientID string) (*SyncResult, error)
}

type ImportUseCase interface {
	ImportFile(ctx context.Context, path string) (*SyncResult, error)
	ImportSnapshot(ctx context.Context, snap *importer.Snapshot) (*SyncResult, error)
}
