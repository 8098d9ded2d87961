package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
)

// SQLiteTransitionLogRepo implements TransitionLogRepo. The log is
// append-only.
type SQLiteTransitionLogRepo struct {
	db db.DBTX
}

func NewSQLiteTransitionLogRepo(conn db.DBTX) *SQLiteTransitionLogRepo {
	return &SQLiteTransitionLogRepo{db: conn}
}

func (r *SQLiteTransitionLogRepo) Append(ctx context.Context, rec *domain.TransitionRecord) error {
	query := `INSERT INTO transition_log (id, entity_type, entity_id, from_state, to_state,
		action, actor_role, note, offline, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		string(rec.EntityType),
		rec.EntityID,
		rec.From,
		rec.To,
		string(rec.Action),
		string(rec.ActorRole),
		rec.Note,
		boolToInt(rec.Offline),
		timeToString(rec.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("appending transition log: %w", err)
	}
	return nil
}

func (r *SQLiteTransitionLogRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.TransitionRecord, error) {
	query := `SELECT id, entity_type, entity_id, from_state, to_state, action, actor_role,
		note, offline, occurred_at
		FROM transition_log WHERE entity_type = ? AND entity_id = ?
		ORDER BY occurred_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("listing transition log: %w", err)
	}
	defer rows.Close()

	var out []domain.TransitionRecord
	for rows.Next() {
		var rec domain.TransitionRecord
		var et, action, role, occurredAt string
		var offline int
		err := rows.Scan(&rec.ID, &et, &rec.EntityID, &rec.From, &rec.To, &action, &role,
			&rec.Note, &offline, &occurredAt)
		if err != nil {
			return nil, fmt.Errorf("scanning transition log row: %w", err)
		}
		rec.EntityType = domain.EntityType(et)
		rec.Action = domain.Action(action)
		rec.ActorRole = domain.ViewerRole(role)
		rec.Offline = intToBool(offline)
		t, err := parseTime(occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing occurred_at for log entry %s: %w", rec.ID, err)
		}
		rec.OccurredAt = t
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transition log: %w", err)
	}
	return out, nil
}
