package domain

import "time"

type Recommendation struct {
	ID              string
	SubjectID       string
	Title           string
	Description     string
	Category        RecommendationCategory
	State           RecommendationState
	Priority        Priority
	Source          Source
	Completed       bool
	ReviewerComment string
	CreatedAt       time.Time
}

// InitialRecommendationState returns the state a freshly generated
// recommendation starts in. AI output waits for physician approval.
func InitialRecommendationState(src Source) RecommendationState {
	if src == SourceAI {
		return RecommendationPendingApproval
	}
	return RecommendationActive
}

func (r *Recommendation) VisibleToPatient() bool {
	return r.State.VisibleToPatient()
}

func (r *Recommendation) IsTerminal() bool {
	return r.State == RecommendationActive || r.State == RecommendationRejected
}

func (r *Recommendation) Validate() error {
	if r.ID == "" {
		return malformed(EntityRecommendation, r.ID, "id")
	}
	if r.State == "" {
		return malformed(EntityRecommendation, r.ID, "state")
	}
	if !r.State.IsValid() {
		return UnknownStateError(EntityRecommendation, r.ID, string(r.State))
	}
	if r.Priority == "" {
		return malformed(EntityRecommendation, r.ID, "priority")
	}
	if !r.Priority.IsValid() {
		return UnknownStateError(EntityRecommendation, r.ID, string(r.Priority))
	}
	if r.Source != "" && !r.Source.IsValid() {
		return UnknownStateError(EntityRecommendation, r.ID, string(r.Source))
	}
	return nil
}

// WithReview returns a copy in the given state. The reviewer comment is kept
// only for review outcomes (APPROVED, MODIFIED, REJECTED).
func (r Recommendation) WithReview(s RecommendationState, comment string) Recommendation {
	r.State = s
	switch s {
	case RecommendationApproved, RecommendationModified, RecommendationRejected:
		r.ReviewerComment = comment
	}
	return r
}
