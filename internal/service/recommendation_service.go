package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/app"
	"github.com/alexanderramin/careflow/internal/backend"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/importer"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/alexanderramin/careflow/internal/workflow"
)

type recommendationService struct {
	recs     repository.RecommendationRepo
	client   backend.Client
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewRecommendationService(
	recs repository.RecommendationRepo,
	client backend.Client,
	uow db.UnitOfWork,
	opts Options,
	observers ...UseCaseObserver,
) app.RecommendationUseCase {
	return &recommendationService{
		recs:     recs,
		client:   client,
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *recommendationService) Feed(ctx context.Context, req app.FeedRequest) (resp *app.FeedResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"role": string(req.Role), "subject_id": req.SubjectID}
	defer observe(ctx, s.observer, "recommendation-feed", startedAt, fields, &err)

	if err = validateRole(req.Role); err != nil {
		return nil, err
	}

	var items []domain.Recommendation
	if req.SubjectID != "" {
		items, err = s.recs.ListBySubject(ctx, req.SubjectID)
	} else {
		items, err = s.recs.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recommendations: %w", err)
	}

	var buckets workflow.RecommendationBuckets
	buckets, err = workflow.ClassifyRecommendations(items)
	if err != nil {
		return nil, err
	}

	shown := buckets.ForRole(req.Role)
	if req.PendingOnly && req.Role == domain.RoleDoctor {
		shown = buckets.PendingReview
	}

	views := make([]app.RecommendationView, 0, len(shown))
	for _, r := range shown {
		var actions []domain.Action
		actions, err = workflow.RecommendationActions(r, req.Role)
		if err != nil {
			return nil, err
		}
		views = append(views, app.RecommendationView{Recommendation: r, Actions: actions})
	}
	fields["count"] = len(views)

	return &app.FeedResponse{
		Role:  req.Role,
		Items: views,
		Stats: workflow.ComputeRecommendationStats(buckets),
	}, nil
}

func (s *recommendationService) Review(ctx context.Context, req app.ReviewRequest) (resp *app.ReviewResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"recommendation_id": req.ID, "action": string(req.Action)}
	defer observe(ctx, s.observer, "recommendation-review", startedAt, fields, &err)

	var current *domain.Recommendation
	current, err = s.recs.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	to, ok := workflow.RecommendationActionTarget(req.Action)
	if !ok {
		err = &domain.TransitionError{
			Kind:       domain.ErrKindIllegalTransition,
			EntityType: domain.EntityRecommendation,
			EntityID:   current.ID,
			From:       string(current.State),
			To:         string(req.Action),
			Message:    fmt.Sprintf("%q is not a review action", req.Action),
		}
		return nil, err
	}
	if err = workflow.ValidateRecommendationTransition(*current, to); err != nil {
		return nil, err
	}

	offline := s.opts.Offline || s.client == nil
	var updated domain.Recommendation
	if offline {
		updated = current.WithReview(to, req.Comment)
	} else {
		var rec *importer.RecomendacionRecord
		rec, err = s.client.ReviewRecommendation(ctx, current.ID, importer.ToWireRecommendationState(to), req.Comment)
		if err != nil {
			return nil, fmt.Errorf("submitting review: %w", err)
		}
		updated, err = s.fromBackend(rec, current.WithReview(to, req.Comment))
		if err != nil {
			return nil, err
		}
	}
	fields["offline"] = offline

	now := s.opts.now(nil)
	log := newTransitionRecord(domain.EntityRecommendation, current.ID, string(current.State), string(updated.State),
		req.Action, domain.RoleDoctor, req.Comment, offline, now)
	if err = s.persist(ctx, &updated, log); err != nil {
		return nil, err
	}

	return &app.ReviewResponse{
		Recommendation: updated,
		From:           current.State,
		To:             updated.State,
		Offline:        offline,
	}, nil
}

func (s *recommendationService) MarkCompleted(ctx context.Context, id string, role domain.ViewerRole) (updated *domain.Recommendation, err error) {
	startedAt := time.Now()
	fields := map[string]any{"recommendation_id": id, "role": string(role)}
	defer observe(ctx, s.observer, "recommendation-complete", startedAt, fields, &err)

	if role == "" {
		role = domain.RolePatient
	}
	if err = validateRole(role); err != nil {
		return nil, err
	}

	var current *domain.Recommendation
	current, err = s.recs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var actions []domain.Action
	actions, err = workflow.RecommendationActions(*current, role)
	if err != nil {
		return nil, err
	}
	if !containsAction(actions, domain.ActionMarkCompleted) {
		msg := "only visible recommendations can be completed, by their patient"
		if current.Completed {
			msg = "already completed"
		}
		err = &domain.TransitionError{
			Kind:       domain.ErrKindIllegalTransition,
			EntityType: domain.EntityRecommendation,
			EntityID:   current.ID,
			From:       string(current.State),
			To:         string(domain.ActionMarkCompleted),
			Message:    msg,
		}
		return nil, err
	}

	done := *current
	done.Completed = true
	offline := s.opts.Offline || s.client == nil
	result := done
	if !offline {
		var rec *importer.RecomendacionRecord
		rec, err = s.client.CompleteRecommendation(ctx, current.ID)
		if err != nil {
			return nil, fmt.Errorf("submitting completion: %w", err)
		}
		result, err = s.fromBackend(rec, done)
		if err != nil {
			return nil, err
		}
	}
	fields["offline"] = offline

	log := newTransitionRecord(domain.EntityRecommendation, current.ID, string(current.State), string(result.State),
		domain.ActionMarkCompleted, role, "", offline, s.opts.now(nil))
	if err = s.persist(ctx, &result, log); err != nil {
		return nil, err
	}
	return &result, nil
}

// fromBackend converts the backend's answer, falling back to the locally
// computed copy when the backend answers without a body.
func (s *recommendationService) fromBackend(rec *importer.RecomendacionRecord, fallback domain.Recommendation) (domain.Recommendation, error) {
	if rec == nil || rec.ID == "" {
		return fallback, nil
	}
	r, err := importer.ConvertRecommendation(*rec, s.opts.location())
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("reading backend answer: %w", err)
	}
	if r.SubjectID == "" {
		r.SubjectID = fallback.SubjectID
	}
	if r.Source == "" {
		r.Source = fallback.Source
	}
	return r, nil
}

func (s *recommendationService) persist(ctx context.Context, r *domain.Recommendation, log *domain.TransitionRecord) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRecommendationRepo(tx).Upsert(ctx, r); err != nil {
			return err
		}
		return appendLog(ctx, repository.NewSQLiteTransitionLogRepo(tx), log)
	})
}
