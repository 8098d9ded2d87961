package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
)

// SQLiteSymptomRepo implements SymptomRepo using a SQLite database.
type SQLiteSymptomRepo struct {
	db db.DBTX
}

func NewSQLiteSymptomRepo(conn db.DBTX) *SQLiteSymptomRepo {
	return &SQLiteSymptomRepo{db: conn}
}

const symptomColumns = `id, subject_id, tremor, rigidity, bradykinesia, balance,
	additional_symptoms, notes, recorded_at`

func (r *SQLiteSymptomRepo) Upsert(ctx context.Context, s *domain.SymptomSample) error {
	origin := "backend"
	if strings.HasPrefix(s.ID, domain.LocalIDPrefix) {
		origin = "local"
	}
	query := `INSERT INTO symptom_samples (` + symptomColumns + `, synced_at, origin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_id = excluded.subject_id,
			tremor = excluded.tremor,
			rigidity = excluded.rigidity,
			bradykinesia = excluded.bradykinesia,
			balance = excluded.balance,
			additional_symptoms = excluded.additional_symptoms,
			notes = excluded.notes,
			recorded_at = excluded.recorded_at,
			synced_at = excluded.synced_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SubjectID,
		s.Tremor,
		s.Rigidity,
		s.Bradykinesia,
		s.Balance,
		s.AdditionalSymptoms,
		s.Notes,
		timeToString(s.RecordedAt),
		nowUTC(),
		origin,
	)
	if err != nil {
		return fmt.Errorf("upserting symptom sample: %w", err)
	}
	return nil
}

func (r *SQLiteSymptomRepo) ListBySubject(ctx context.Context, subjectID string, since, until time.Time) ([]domain.SymptomSample, error) {
	query := `SELECT ` + symptomColumns + ` FROM symptom_samples
		WHERE subject_id = ? AND recorded_at >= ?`
	args := []any{subjectID, ""}
	if !since.IsZero() {
		args[1] = timeToString(since)
	}
	if !until.IsZero() {
		query += ` AND recorded_at <= ?`
		args = append(args, timeToString(until))
	}
	query += ` ORDER BY recorded_at, id`
	return r.list(ctx, query, args...)
}

func (r *SQLiteSymptomRepo) ListLocal(ctx context.Context) ([]domain.SymptomSample, error) {
	query := `SELECT ` + symptomColumns + ` FROM symptom_samples
		WHERE origin = 'local' ORDER BY recorded_at, id`
	return r.list(ctx, query)
}

// Delete removes one sample. Deleting a missing id is not an error.
func (r *SQLiteSymptomRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM symptom_samples WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting symptom sample %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteSymptomRepo) list(ctx context.Context, query string, args ...any) ([]domain.SymptomSample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing symptom samples: %w", err)
	}
	defer rows.Close()

	var out []domain.SymptomSample
	for rows.Next() {
		var s domain.SymptomSample
		var recordedAt string
		err := rows.Scan(
			&s.ID, &s.SubjectID, &s.Tremor, &s.Rigidity, &s.Bradykinesia, &s.Balance,
			&s.AdditionalSymptoms, &s.Notes, &recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning symptom sample row: %w", err)
		}
		t, err := parseTime(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at for sample %s: %w", s.ID, err)
		}
		s.RecordedAt = t
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating symptom samples: %w", err)
	}
	return out, nil
}
