package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
)

// SQLiteAppointmentRepo implements AppointmentRepo using a SQLite database.
type SQLiteAppointmentRepo struct {
	db db.DBTX
}

func NewSQLiteAppointmentRepo(conn db.DBTX) *SQLiteAppointmentRepo {
	return &SQLiteAppointmentRepo{db: conn}
}

const appointmentColumns = `id, subject_id, counterpart_id, scheduled_at, state, reason, notes, created_at`

func (r *SQLiteAppointmentRepo) Upsert(ctx context.Context, a *domain.Appointment) error {
	query := `INSERT INTO appointments (` + appointmentColumns + `, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_id = excluded.subject_id,
			counterpart_id = excluded.counterpart_id,
			scheduled_at = excluded.scheduled_at,
			state = excluded.state,
			reason = excluded.reason,
			notes = excluded.notes,
			created_at = COALESCE(excluded.created_at, appointments.created_at),
			synced_at = excluded.synced_at`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.SubjectID,
		a.CounterpartID,
		timeToString(a.ScheduledAt),
		string(a.State),
		a.Reason,
		a.Notes,
		nullableTimeToString(a.CreatedAt),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting appointment: %w", err)
	}
	return nil
}

func (r *SQLiteAppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`
	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning appointment: %w", err)
	}
	return a, nil
}

func (r *SQLiteAppointmentRepo) List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error) {
	var where []string
	var args []any
	if f.SubjectID != "" {
		where = append(where, "subject_id = ?")
		args = append(args, f.SubjectID)
	}
	if f.CounterpartID != "" {
		where = append(where, "counterpart_id = ?")
		args = append(args, f.CounterpartID)
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY scheduled_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var state, scheduledAt string
	var createdAt sql.NullString
	if err := row.Scan(&a.ID, &a.SubjectID, &a.CounterpartID, &scheduledAt, &state, &a.Reason, &a.Notes, &createdAt); err != nil {
		return nil, err
	}
	at, err := parseTime(scheduledAt)
	if err != nil {
		return nil, fmt.Errorf("parsing scheduled_at for appointment %s: %w", a.ID, err)
	}
	a.ScheduledAt = at
	a.State = domain.AppointmentState(state)
	a.CreatedAt = parseNullableTime(createdAt)
	return &a, nil
}
