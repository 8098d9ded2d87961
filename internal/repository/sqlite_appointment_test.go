package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentRepo_UpsertAndGetByID(t *testing.T) {
	repo := NewSQLiteAppointmentRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.FixedZone("COT", -5*3600))
	a := testutil.NewTestAppointment("12", testutil.WithScheduledAt(at), testutil.WithReason("seguimiento"))
	require.NoError(t, repo.Upsert(ctx, a))

	got, err := repo.GetByID(ctx, "12")
	require.NoError(t, err)
	assert.True(t, at.Equal(got.ScheduledAt))
	assert.Equal(t, domain.AppointmentPending, got.State)
	assert.Equal(t, "seguimiento", got.Reason)
	assert.Equal(t, "d1", got.CounterpartID)
}

func TestAppointmentRepo_UpsertReplacesState(t *testing.T) {
	repo := NewSQLiteAppointmentRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestAppointment("1")
	require.NoError(t, repo.Upsert(ctx, a))
	confirmed := a.WithState(domain.AppointmentConfirmed)
	confirmed.CreatedAt = time.Time{}
	require.NoError(t, repo.Upsert(ctx, &confirmed))

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, got.State)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt), "created_at is kept when the update omits it")
}

func TestAppointmentRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteAppointmentRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteAppointmentRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAppointment("3", testutil.WithScheduledAt(base.Add(2*time.Hour)))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAppointment("1", testutil.WithScheduledAt(base))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestAppointment("2",
		testutil.WithScheduledAt(base.Add(time.Hour)), testutil.WithSubject("p2"), testutil.WithCounterpart("d2"))))

	all, err := repo.List(ctx, AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.List(ctx, AppointmentFilter{SubjectID: "p1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.List(ctx, AppointmentFilter{CounterpartID: "d2"})
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "2", theirs[0].ID)
}
