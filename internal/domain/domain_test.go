package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestAppointment_IsTerminal(t *testing.T) {
	cases := []struct {
		state    AppointmentState
		terminal bool
	}{
		{AppointmentPending, false},
		{AppointmentConfirmed, false},
		{AppointmentScheduled, false},
		{AppointmentRescheduled, false},
		{AppointmentCompleted, true},
		{AppointmentCancelled, true},
		{AppointmentRejected, true},
	}
	for _, tc := range cases {
		a := &Appointment{State: tc.state}
		assert.Equal(t, tc.terminal, a.IsTerminal(), "state=%s", tc.state)
	}
}

func TestAppointment_Validate(t *testing.T) {
	ok := Appointment{ID: "1", ScheduledAt: testNow, State: AppointmentPending, CreatedAt: testNow.Add(-time.Hour)}
	require.NoError(t, ok.Validate())

	missingID := ok
	missingID.ID = ""
	assert.ErrorIs(t, missingID.Validate(), ErrMalformedEntity)

	missingTime := ok
	missingTime.ScheduledAt = time.Time{}
	assert.ErrorIs(t, missingTime.Validate(), ErrMalformedEntity)

	missingCreated := ok
	missingCreated.CreatedAt = time.Time{}
	err := missingCreated.Validate()
	assert.ErrorIs(t, err, ErrMalformedEntity)
	assert.Contains(t, err.Error(), "createdAt")

	unknown := ok
	unknown.State = "PROGRAMADA"
	err = unknown.Validate()
	assert.ErrorIs(t, err, ErrUnknownState)
	assert.Equal(t, ErrKindUnknownState, KindOf(err))
}

func TestAppointment_WithStateLeavesOriginal(t *testing.T) {
	a := Appointment{ID: "1", State: AppointmentPending}
	b := a.WithState(AppointmentConfirmed)
	assert.Equal(t, AppointmentPending, a.State)
	assert.Equal(t, AppointmentConfirmed, b.State)
}

func TestInitialStates(t *testing.T) {
	assert.Equal(t, AppointmentPending, InitialAppointmentState(true))
	assert.Equal(t, AppointmentScheduled, InitialAppointmentState(false))
	assert.Equal(t, RecommendationActive, InitialRecommendationState(SourceSystem))
	assert.Equal(t, RecommendationPendingApproval, InitialRecommendationState(SourceAI))
}

func TestCompareIDs(t *testing.T) {
	assert.Equal(t, -1, CompareIDs("3", "5"))
	assert.Equal(t, 1, CompareIDs("10", "9"), "numeric ids compare numerically")
	assert.Equal(t, 0, CompareIDs("7", "7"))
	assert.Equal(t, -1, CompareIDs("a", "b"))
}

func TestRecommendation_Visibility(t *testing.T) {
	for _, s := range RecommendationStates {
		r := Recommendation{State: s}
		want := s == RecommendationActive || s == RecommendationApproved || s == RecommendationModified
		assert.Equal(t, want, r.VisibleToPatient(), "state=%s", s)
	}
}

func TestRecommendation_WithReviewKeepsCommentOnlyForReviewOutcomes(t *testing.T) {
	r := Recommendation{ID: "r1", State: RecommendationPendingApproval}
	approved := r.WithReview(RecommendationApproved, "looks right")
	assert.Equal(t, "looks right", approved.ReviewerComment)

	active := approved.WithReview(RecommendationActive, "ignored")
	assert.Equal(t, "looks right", active.ReviewerComment)
}

func TestRecommendation_ValidateUnknownPriority(t *testing.T) {
	r := Recommendation{ID: "r1", State: RecommendationActive, Priority: "CRITICAL"}
	assert.ErrorIs(t, r.Validate(), ErrUnknownState)
}

func TestRecommendation_ValidateMissingPriorityIsMalformed(t *testing.T) {
	r := Recommendation{ID: "r1", State: RecommendationActive}
	err := r.Validate()
	assert.ErrorIs(t, err, ErrMalformedEntity)
	assert.NotErrorIs(t, err, ErrUnknownState)
	assert.Empty(t, KindOf(err))
	assert.Contains(t, err.Error(), "priority")
}

func TestSymptomSample_AverageAndLevel(t *testing.T) {
	s := SymptomSample{Tremor: 2, Rigidity: 3, Bradykinesia: 3, Balance: 2, RecordedAt: testNow}
	assert.Equal(t, 3, s.AverageSeverity(), "2.5 rounds half up")
	assert.Equal(t, SeverityMild, s.Level())

	s = SymptomSample{Tremor: 8, Rigidity: 9, Bradykinesia: 8, Balance: 8, RecordedAt: testNow}
	assert.Equal(t, SeveritySevere, s.Level())
}

func TestSymptomSample_ValidateRange(t *testing.T) {
	s := SymptomSample{ID: "s1", Tremor: 0, Rigidity: 3, Bradykinesia: 3, Balance: 2, RecordedAt: testNow}
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedEntity))
	assert.Contains(t, err.Error(), "tremor")
}

func TestTransitionError_Is(t *testing.T) {
	err := &TransitionError{Kind: ErrKindAlreadyTerminal, EntityType: EntityAppointment, EntityID: "1"}
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.NotErrorIs(t, err, ErrPastDeadline)
	assert.Contains(t, err.Error(), "ALREADY_TERMINAL")
}

func TestSeverityLevelFor(t *testing.T) {
	assert.Equal(t, SeverityMild, SeverityLevelFor(3))
	assert.Equal(t, SeverityModerate, SeverityLevelFor(4))
	assert.Equal(t, SeverityModerate, SeverityLevelFor(7))
	assert.Equal(t, SeveritySevere, SeverityLevelFor(8))
}
