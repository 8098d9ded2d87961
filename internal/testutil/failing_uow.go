package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/careflow/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose transaction refuses one write, so
// a test can break a multi-write use case half way and check the mirror
// is untouched. The refused write is the FailOn-th (1-based), or the first
// one touching FailOnTable when that is set. Reads always pass.
type FailOnNthExecUoW struct {
	DB          *sql.DB
	FailOn      int32
	FailOnTable string
	Err         error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &refusingTx{DBTX: tx, uow: u})
	})
}

type refusingTx struct {
	db.DBTX
	uow    *FailOnNthExecUoW
	writes atomic.Int32
}

func (r *refusingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := r.writes.Add(1)
	if r.refuses(n, query) {
		return nil, r.uow.Err
	}
	return r.DBTX.ExecContext(ctx, query, args...)
}

func (r *refusingTx) refuses(n int32, query string) bool {
	if r.uow.FailOnTable != "" {
		return strings.Contains(query, " "+r.uow.FailOnTable+" ") || strings.Contains(query, " "+r.uow.FailOnTable+"\n")
	}
	return n == r.uow.FailOn
}
