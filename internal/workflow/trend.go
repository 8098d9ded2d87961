package workflow

import (
	"sort"

	"github.com/alexanderramin/careflow/internal/domain"
)

// ClassifyTrend compares the aggregate severity of two time-ordered
// snapshots. Changes of epsilon or less are STABLE.
func ClassifyTrend(prev, curr SeveritySnapshot, epsilon float64) domain.Trend {
	delta := curr.Aggregate() - prev.Aggregate()
	switch {
	case delta < -epsilon:
		return domain.TrendImproving
	case delta > epsilon:
		return domain.TrendWorsening
	default:
		return domain.TrendStable
	}
}

// TrendResult carries the two windows a series trend was computed from.
type TrendResult struct {
	Trend    domain.Trend
	Leading  SeveritySnapshot
	Trailing SeveritySnapshot
	Delta    float64
}

// TrendOfSeries splits samples by recordedAt into a leading and trailing
// half (the middle sample of an odd series goes to the trailing half) and
// classifies the change between them. The input slice is not reordered.
func TrendOfSeries(samples []domain.SymptomSample, epsilon float64) TrendResult {
	if len(samples) < 2 {
		snap := SnapshotOf(samples)
		return TrendResult{Trend: domain.TrendStable, Leading: snap, Trailing: snap}
	}

	sorted := make([]domain.SymptomSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})

	mid := len(sorted) / 2
	leading := SnapshotOf(sorted[:mid])
	trailing := SnapshotOf(sorted[mid:])
	return TrendResult{
		Trend:    ClassifyTrend(leading, trailing, epsilon),
		Leading:  leading,
		Trailing: trailing,
		Delta:    trailing.Aggregate() - leading.Aggregate(),
	}
}
