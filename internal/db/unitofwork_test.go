package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/careflow/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertLog(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO transition_log
		(id, entity_type, entity_id, from_state, to_state, occurred_at)
		VALUES (?, 'appointment', 'a1', 'PENDING', 'CONFIRMED', '2025-03-15T12:00:00Z')`, id)
	return err
}

func logExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM transition_log WHERE id = ?`, id).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertLog(ctx, tx, "t1")
	})
	require.NoError(t, err)
	assert.True(t, logExists(t, database, "t1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertLog(ctx, tx, "t2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, logExists(t, database, "t2"), "insert must not survive rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertLog(ctx, tx, "t3")
			panic("boom")
		})
	})
	assert.False(t, logExists(t, database, "t3"))
}

func TestWithinTx_CancelledCommandLeavesMirrorUntouched(t *testing.T) {
	database, uow := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertLog(ctx, tx, "t4"); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, logExists(t, database, "t4"))
}
