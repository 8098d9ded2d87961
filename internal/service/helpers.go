package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/alexanderramin/careflow/internal/repository"
	"github.com/google/uuid"
)

// observe reports a finished use case. Call it deferred with a pointer to
// the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

func validateRole(role domain.ViewerRole) error {
	if !role.IsValid() {
		return domain.InvalidRoleError(role)
	}
	return nil
}

func containsAction(actions []domain.Action, a domain.Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

func newTransitionRecord(entity domain.EntityType, id, from, to string, action domain.Action,
	role domain.ViewerRole, note string, offline bool, at time.Time) *domain.TransitionRecord {
	return &domain.TransitionRecord{
		ID:         uuid.New().String(),
		EntityType: entity,
		EntityID:   id,
		From:       from,
		To:         to,
		Action:     action,
		ActorRole:  role,
		Note:       note,
		Offline:    offline,
		OccurredAt: at.UTC(),
	}
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("snapshot validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// appendLog writes a transition record through a tx-scoped repository.
func appendLog(ctx context.Context, logs repository.TransitionLogRepo, rec *domain.TransitionRecord) error {
	if err := logs.Append(ctx, rec); err != nil {
		return fmt.Errorf("recording transition: %w", err)
	}
	return nil
}
