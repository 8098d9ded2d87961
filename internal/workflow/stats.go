package workflow

import (
	"github.com/alexanderramin/careflow/internal/domain"
)

type AppointmentStats struct {
	Total    int
	ByState  map[domain.AppointmentState]int
	Today    int
	Pending  int
	Upcoming int
	Next     *domain.Appointment
}

func ComputeAppointmentStats(b AppointmentBuckets) AppointmentStats {
	st := AppointmentStats{
		Total:    len(b.All),
		ByState:  make(map[domain.AppointmentState]int, len(domain.AppointmentStates)),
		Today:    len(b.Today),
		Pending:  len(b.Pending),
		Upcoming: len(b.Upcoming),
		Next:     b.Next,
	}
	for _, s := range domain.AppointmentStates {
		st.ByState[s] = len(b.ByState[s])
	}
	return st
}

type RecommendationStats struct {
	Total             int
	Visible           int
	PendingReview     int
	Rejected          int
	Completed         int
	Outstanding       int
	UrgentOutstanding int
	ByPriority        map[domain.Priority]int
	// CompletionPct is completed / visible * 100, zero when nothing is visible.
	CompletionPct float64
}

func ComputeRecommendationStats(b RecommendationBuckets) RecommendationStats {
	st := RecommendationStats{
		Total:         len(b.All),
		Visible:       len(b.VisibleToPatient),
		PendingReview: len(b.PendingReview),
		Rejected:      len(b.Rejected),
		Completed:     len(b.Completed),
		Outstanding:   len(b.Outstanding),
		ByPriority:    make(map[domain.Priority]int, len(domain.Priorities)),
	}
	for _, p := range domain.Priorities {
		st.ByPriority[p] = len(b.ByPriority[p])
	}
	for _, r := range b.Outstanding {
		if r.Priority == domain.PriorityUrgent {
			st.UrgentOutstanding++
		}
	}
	if st.Visible > 0 {
		st.CompletionPct = float64(st.Completed) / float64(st.Visible) * 100
	}
	return st
}

// SeveritySnapshot holds unrounded per-dimension averages.
type SeveritySnapshot struct {
	Tremor       float64
	Rigidity     float64
	Bradykinesia float64
	Balance      float64
	Count        int
}

func (s SeveritySnapshot) Value(d domain.SymptomDimension) float64 {
	switch d {
	case domain.DimensionTremor:
		return s.Tremor
	case domain.DimensionRigidity:
		return s.Rigidity
	case domain.DimensionBradykinesia:
		return s.Bradykinesia
	case domain.DimensionBalance:
		return s.Balance
	default:
		return 0
	}
}

// Aggregate is the mean of the four dimension averages.
func (s SeveritySnapshot) Aggregate() float64 {
	return (s.Tremor + s.Rigidity + s.Bradykinesia + s.Balance) / 4
}

// SnapshotOf averages samples per dimension. No samples yields all zeros.
func SnapshotOf(samples []domain.SymptomSample) SeveritySnapshot {
	snap := SeveritySnapshot{Count: len(samples)}
	if len(samples) == 0 {
		return snap
	}
	var tremor, rigidity, brady, balance int
	for i := range samples {
		tremor += samples[i].Tremor
		rigidity += samples[i].Rigidity
		brady += samples[i].Bradykinesia
		balance += samples[i].Balance
	}
	n := float64(len(samples))
	snap.Tremor = float64(tremor) / n
	snap.Rigidity = float64(rigidity) / n
	snap.Bradykinesia = float64(brady) / n
	snap.Balance = float64(balance) / n
	return snap
}

type SymptomStats struct {
	Count           int
	TremorAvg       int
	RigidityAvg     int
	BradykinesiaAvg int
	BalanceAvg      int
	OverallAvg      int
	Level           domain.SeverityLevel
	// Best and Worst are empty when there are no samples.
	Best   domain.SymptomDimension
	Worst  domain.SymptomDimension
	Latest *domain.SymptomSample
}

// Avg returns the rounded average for one dimension.
func (s SymptomStats) Avg(d domain.SymptomDimension) int {
	switch d {
	case domain.DimensionTremor:
		return s.TremorAvg
	case domain.DimensionRigidity:
		return s.RigidityAvg
	case domain.DimensionBradykinesia:
		return s.BradykinesiaAvg
	case domain.DimensionBalance:
		return s.BalanceAvg
	default:
		return 0
	}
}

// ComputeSymptomStats rolls samples up into rounded averages. An empty input
// yields zero averages rather than an error.
func ComputeSymptomStats(samples []domain.SymptomSample) SymptomStats {
	snap := SnapshotOf(samples)
	st := SymptomStats{
		Count:           snap.Count,
		TremorAvg:       domain.RoundHalfUp(snap.Tremor),
		RigidityAvg:     domain.RoundHalfUp(snap.Rigidity),
		BradykinesiaAvg: domain.RoundHalfUp(snap.Bradykinesia),
		BalanceAvg:      domain.RoundHalfUp(snap.Balance),
		OverallAvg:      domain.RoundHalfUp(snap.Aggregate()),
	}
	if snap.Count == 0 {
		return st
	}
	st.Level = domain.SeverityLevelFor(st.OverallAvg)
	st.Best, st.Worst = bestWorst(snap)

	latest := samples[0]
	for _, s := range samples[1:] {
		if s.RecordedAt.After(latest.RecordedAt) {
			latest = s
		}
	}
	st.Latest = &latest
	return st
}

// bestWorst picks the min and max average dimensions. Strict comparisons keep
// the earlier dimension in canonical order on ties.
func bestWorst(snap SeveritySnapshot) (best, worst domain.SymptomDimension) {
	best, worst = domain.SymptomDimensions[0], domain.SymptomDimensions[0]
	for _, d := range domain.SymptomDimensions[1:] {
		if snap.Value(d) < snap.Value(best) {
			best = d
		}
		if snap.Value(d) > snap.Value(worst) {
			worst = d
		}
	}
	return best, worst
}
