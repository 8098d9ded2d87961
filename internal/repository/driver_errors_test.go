package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexanderramin/careflow/internal/db"
	"github.com/alexanderramin/careflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Driver failures cannot be provoked on a real in-memory mirror, so these
// run against sqlmock.
func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

var errDiskIO = errors.New("disk I/O error")

func TestTransitionLogAppend_WrapsDriverError(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewSQLiteTransitionLogRepo(conn)

	mock.ExpectExec(`INSERT INTO transition_log`).
		WithArgs("l1", "appointment", "a1", "PENDING", "CONFIRMED", "confirm", "doctor", "", 1, sqlmock.AnyArg()).
		WillReturnError(errDiskIO)

	err := repo.Append(context.Background(), &domain.TransitionRecord{
		ID: "l1", EntityType: domain.EntityAppointment, EntityID: "a1",
		From: "PENDING", To: "CONFIRMED", Action: domain.ActionConfirm,
		ActorRole: domain.RoleDoctor, Offline: true, OccurredAt: time.Now(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskIO)
	assert.Contains(t, err.Error(), "appending transition log")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionLogList_RejectsCorruptTimestamp(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewSQLiteTransitionLogRepo(conn)

	rows := sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "from_state", "to_state",
		"action", "actor_role", "note", "offline", "occurred_at"}).
		AddRow("l1", "appointment", "a1", "PENDING", "CONFIRMED", "confirm", "doctor", "", 0, "yesterday")
	mock.ExpectQuery(`(?s)SELECT .* FROM transition_log`).
		WithArgs("appointment", "a1").
		WillReturnRows(rows)

	_, err := repo.ListByEntity(context.Background(), domain.EntityAppointment, "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occurred_at for log entry l1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentGetByID_DistinguishesMissingFromBroken(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewSQLiteAppointmentRepo(conn)

	mock.ExpectQuery(`FROM appointments WHERE id = \?`).WithArgs("a1").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM appointments WHERE id = \?`).WithArgs("a2").WillReturnError(errDiskIO)

	_, err := repo.GetByID(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(context.Background(), "a2")
	assert.ErrorIs(t, err, errDiskIO)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollsBackOnRepoFailure(t *testing.T) {
	conn, mock := setupMockDB(t)
	uow := db.NewSQLiteUnitOfWork(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO transition_log`).WillReturnError(errDiskIO)
	mock.ExpectRollback()

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteTransitionLogRepo(tx).Append(ctx, &domain.TransitionRecord{
			ID: "l1", EntityType: domain.EntityAppointment, EntityID: "a1", OccurredAt: time.Now(),
		})
	})
	assert.ErrorIs(t, err, errDiskIO)
	assert.NoError(t, mock.ExpectationsWereMet())
}
