package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	MinSeverity = 1
	MaxSeverity = 10
)

type SymptomSample struct {
	ID                 string
	SubjectID          string
	Tremor             int
	Rigidity           int
	Bradykinesia       int
	Balance            int
	AdditionalSymptoms string
	Notes              string
	RecordedAt         time.Time
}

// Severity returns the value of one dimension.
func (s *SymptomSample) Severity(d SymptomDimension) int {
	switch d {
	case DimensionTremor:
		return s.Tremor
	case DimensionRigidity:
		return s.Rigidity
	case DimensionBradykinesia:
		return s.Bradykinesia
	case DimensionBalance:
		return s.Balance
	default:
		return 0
	}
}

// AverageSeverity is round((tremor+rigidity+bradykinesia+balance)/4).
func (s *SymptomSample) AverageSeverity() int {
	sum := s.Tremor + s.Rigidity + s.Bradykinesia + s.Balance
	return RoundHalfUp(float64(sum) / 4)
}

func (s *SymptomSample) Level() SeverityLevel {
	return SeverityLevelFor(s.AverageSeverity())
}

func (s *SymptomSample) Validate() error {
	if s.RecordedAt.IsZero() {
		return fmt.Errorf("symptom sample %q: missing recordedAt: %w", s.ID, ErrMalformedEntity)
	}
	for _, d := range SymptomDimensions {
		v := s.Severity(d)
		if v < MinSeverity || v > MaxSeverity {
			return fmt.Errorf("symptom sample %q: %s=%d outside [%d,%d]: %w",
				s.ID, d, v, MinSeverity, MaxSeverity, ErrMalformedEntity)
		}
	}
	return nil
}

// RoundHalfUp rounds x to the nearest integer, halves away from negative infinity.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// LocalIDPrefix marks samples and appointments created on this machine
// rather than fetched from the backend.
const LocalIDPrefix = "local-"
