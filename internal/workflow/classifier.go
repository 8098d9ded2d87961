package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
)

// AppointmentBuckets are the overlapping display groups of an appointment list.
type AppointmentBuckets struct {
	All      []domain.Appointment
	Today    []domain.Appointment
	Pending  []domain.Appointment
	Upcoming []domain.Appointment
	ByState  map[domain.AppointmentState][]domain.Appointment
	Next     *domain.Appointment
}

// RecommendationBuckets are the display groups of a recommendation list.
// VisibleToPatient, PendingReview and Rejected partition the input.
type RecommendationBuckets struct {
	All              []domain.Recommendation
	VisibleToPatient []domain.Recommendation
	PendingReview    []domain.Recommendation
	Rejected         []domain.Recommendation
	Completed        []domain.Recommendation
	Outstanding      []domain.Recommendation
	ByPriority       map[domain.Priority][]domain.Recommendation
	ByState          map[domain.RecommendationState][]domain.Recommendation
}

// ClassifyAppointments projects items into buckets relative to now. Buckets
// keep source order; items is not modified. Any malformed entry or unknown
// state fails the whole call.
func ClassifyAppointments(items []domain.Appointment, now time.Time) (AppointmentBuckets, error) {
	b := AppointmentBuckets{
		All:      make([]domain.Appointment, 0, len(items)),
		Today:    []domain.Appointment{},
		Pending:  []domain.Appointment{},
		Upcoming: []domain.Appointment{},
		ByState:  make(map[domain.AppointmentState][]domain.Appointment, len(domain.AppointmentStates)),
	}
	for _, s := range domain.AppointmentStates {
		b.ByState[s] = []domain.Appointment{}
	}

	for i := range items {
		a := items[i]
		if err := a.Validate(); err != nil {
			return AppointmentBuckets{}, fmt.Errorf("classifying appointments: %w", err)
		}
		b.All = append(b.All, a)
		b.ByState[a.State] = append(b.ByState[a.State], a)

		if sameCalendarDay(a.ScheduledAt, now) {
			b.Today = append(b.Today, a)
		}
		if a.State == domain.AppointmentPending {
			b.Pending = append(b.Pending, a)
		}
		if a.ScheduledAt.After(now) &&
			(a.State == domain.AppointmentScheduled || a.State == domain.AppointmentConfirmed) {
			b.Upcoming = append(b.Upcoming, a)
		}
	}

	b.Next = nextAppointment(b.Upcoming)
	return b, nil
}

// Bucket resolves a named filter: all, today, pending, upcoming, or a state name.
func (b AppointmentBuckets) Bucket(name string) ([]domain.Appointment, error) {
	switch strings.ToLower(name) {
	case "", "all":
		return b.All, nil
	case "today":
		return b.Today, nil
	case "pending":
		return b.Pending, nil
	case "upcoming":
		return b.Upcoming, nil
	}
	s := domain.AppointmentState(strings.ToUpper(name))
	if !s.IsValid() {
		return nil, domain.UnknownStateError(domain.EntityAppointment, "", name)
	}
	return b.ByState[s], nil
}

// ClassifyRecommendations projects items into buckets. Buckets keep source order.
func ClassifyRecommendations(items []domain.Recommendation) (RecommendationBuckets, error) {
	b := RecommendationBuckets{
		All:              make([]domain.Recommendation, 0, len(items)),
		VisibleToPatient: []domain.Recommendation{},
		PendingReview:    []domain.Recommendation{},
		Rejected:         []domain.Recommendation{},
		Completed:        []domain.Recommendation{},
		Outstanding:      []domain.Recommendation{},
		ByPriority:       make(map[domain.Priority][]domain.Recommendation, len(domain.Priorities)),
		ByState:          make(map[domain.RecommendationState][]domain.Recommendation, len(domain.RecommendationStates)),
	}
	for _, p := range domain.Priorities {
		b.ByPriority[p] = []domain.Recommendation{}
	}
	for _, s := range domain.RecommendationStates {
		b.ByState[s] = []domain.Recommendation{}
	}

	for i := range items {
		r := items[i]
		if err := r.Validate(); err != nil {
			return RecommendationBuckets{}, fmt.Errorf("classifying recommendations: %w", err)
		}
		b.All = append(b.All, r)
		b.ByState[r.State] = append(b.ByState[r.State], r)

		switch {
		case r.VisibleToPatient():
			b.VisibleToPatient = append(b.VisibleToPatient, r)
			b.ByPriority[r.Priority] = append(b.ByPriority[r.Priority], r)
			if r.Completed {
				b.Completed = append(b.Completed, r)
			} else {
				b.Outstanding = append(b.Outstanding, r)
			}
		case r.State == domain.RecommendationPendingApproval:
			b.PendingReview = append(b.PendingReview, r)
		default:
			b.Rejected = append(b.Rejected, r)
		}
	}
	return b, nil
}

// ForRole returns the recommendations a viewer is allowed to see.
func (b RecommendationBuckets) ForRole(role domain.ViewerRole) []domain.Recommendation {
	if role == domain.RoleDoctor {
		return b.All
	}
	return b.VisibleToPatient
}

// nextAppointment picks the earliest upcoming entry, lower id on ties.
func nextAppointment(upcoming []domain.Appointment) *domain.Appointment {
	if len(upcoming) == 0 {
		return nil
	}
	best := upcoming[0]
	for _, a := range upcoming[1:] {
		switch {
		case a.ScheduledAt.Before(best.ScheduledAt):
			best = a
		case a.ScheduledAt.Equal(best.ScheduledAt) && domain.CompareIDs(a.ID, best.ID) < 0:
			best = a
		}
	}
	return &best
}

// sameCalendarDay compares dates in ref's location, not a rolling 24h window.
func sameCalendarDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
