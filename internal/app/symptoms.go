package app

import (
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/workflow"
)

type RecordSymptomRequest struct {
	SubjectID          string
	Tremor             int
	Rigidity           int
	Bradykinesia       int
	Balance            int
	AdditionalSymptoms string
	Notes              string
	RecordedAt         *time.Time
	// Role is who reports. A doctor reports for SubjectID; a patient, or an
	// empty role, reports for the backend token holder.
	Role domain.ViewerRole
}

// SymptomWindowRequest selects the samples of one subject recorded in the
// last Days days. Days <= 0 uses the configured window.
type SymptomWindowRequest struct {
	SubjectID string
	Days      int
	Now       *time.Time
	Epsilon   *float64
}

type SymptomStatsResponse struct {
	SubjectID string
	Since     time.Time
	Stats     workflow.SymptomStats
	Samples   []domain.SymptomSample
}

type TrendResponse struct {
	SubjectID string
	Since     time.Time
	Count     int
	Epsilon   float64
	Result    workflow.TrendResult
}
