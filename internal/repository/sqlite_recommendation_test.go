package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteRecommendationRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	r := testutil.NewTestRecommendation("5", "Caminar 20 minutos",
		testutil.WithSource(domain.SourceAI),
		testutil.WithPriority(domain.PriorityUrgent))
	require.NoError(t, repo.Upsert(ctx, r))

	got, err := repo.GetByID(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationPendingApproval, got.State)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.Equal(t, domain.SourceAI, got.Source)
	assert.False(t, got.Completed)

	reviewed := got.WithReview(domain.RecommendationRejected, "no aplica")
	require.NoError(t, repo.Upsert(ctx, &reviewed))
	got, err = repo.GetByID(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendationRejected, got.State)
	assert.Equal(t, "no aplica", got.ReviewerComment)
}

func TestRecommendationRepo_RejectsUnknownPriority(t *testing.T) {
	repo := NewSQLiteRecommendationRepo(testutil.NewTestDB(t))
	r := testutil.NewTestRecommendation("1", "x", testutil.WithPriority("CRITICAL"))
	assert.Error(t, repo.Upsert(context.Background(), r))
}

func TestRecommendationRepo_ListBySubject(t *testing.T) {
	repo := NewSQLiteRecommendationRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestRecommendation("1", "a")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestRecommendation("2", "b", testutil.WithCompleted(true))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestRecommendation("3", "c", testutil.WithRecommendationSubject("p9"))))

	mine, err := repo.ListBySubject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
