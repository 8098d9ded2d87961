package app

import (
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/workflow"
)

type FeedRequest struct {
	Role      domain.ViewerRole
	SubjectID string
	// PendingOnly limits a doctor's feed to the review queue.
	PendingOnly bool
}

type RecommendationView struct {
	Recommendation domain.Recommendation
	Actions        []domain.Action
}

type FeedResponse struct {
	Role  domain.ViewerRole
	Items []RecommendationView
	Stats workflow.RecommendationStats
}

type ReviewRequest struct {
	ID      string
	Action  domain.Action
	Comment string
}

type ReviewResponse struct {
	Recommendation domain.Recommendation
	From           domain.RecommendationState
	To             domain.RecommendationState
	Offline        bool
}
