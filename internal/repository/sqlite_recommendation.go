package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
)

// SQLiteRecommendationRepo implements RecommendationRepo using a SQLite database.
type SQLiteRecommendationRepo struct {
	db db.DBTX
}

func NewSQLiteRecommendationRepo(conn db.DBTX) *SQLiteRecommendationRepo {
	return &SQLiteRecommendationRepo{db: conn}
}

const recommendationColumns = `id, subject_id, title, description, category, state, priority,
	source, completed, reviewer_comment, created_at`

func (r *SQLiteRecommendationRepo) Upsert(ctx context.Context, rec *domain.Recommendation) error {
	query := `INSERT INTO recommendations (` + recommendationColumns + `, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_id = excluded.subject_id,
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			state = excluded.state,
			priority = excluded.priority,
			source = excluded.source,
			completed = excluded.completed,
			reviewer_comment = excluded.reviewer_comment,
			created_at = COALESCE(excluded.created_at, recommendations.created_at),
			synced_at = excluded.synced_at`
	category := rec.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.SubjectID,
		rec.Title,
		rec.Description,
		string(category),
		string(rec.State),
		string(rec.Priority),
		string(rec.Source),
		boolToInt(rec.Completed),
		rec.ReviewerComment,
		nullableTimeToString(rec.CreatedAt),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting recommendation: %w", err)
	}
	return nil
}

func (r *SQLiteRecommendationRepo) GetByID(ctx context.Context, id string) (*domain.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = ?`
	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning recommendation: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRecommendationRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations
		WHERE subject_id = ? ORDER BY created_at DESC, id`
	return r.list(ctx, query, subjectID)
}

func (r *SQLiteRecommendationRepo) List(ctx context.Context) ([]domain.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations ORDER BY created_at DESC, id`
	return r.list(ctx, query)
}

func (r *SQLiteRecommendationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	defer rows.Close()

	var out []domain.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recommendations: %w", err)
	}
	return out, nil
}

func scanRecommendation(row rowScanner) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	var category, state, priority, source string
	var completed int
	var createdAt sql.NullString
	err := row.Scan(
		&rec.ID, &rec.SubjectID, &rec.Title, &rec.Description, &category, &state, &priority,
		&source, &completed, &rec.ReviewerComment, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Category = domain.RecommendationCategory(category)
	rec.State = domain.RecommendationState(state)
	rec.Priority = domain.Priority(priority)
	rec.Source = domain.Source(source)
	rec.Completed = intToBool(completed)
	rec.CreatedAt = parseNullableTime(createdAt)
	return &rec, nil
}
