package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

type execCall struct {
	sql  string
	args []any
}

// fakeRow scans vals into dest in order, or returns err.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// fakeTx records statements and how the transaction ended. Methods the
// repositories do not call panic through the nil embedded pgx.Tx.
type fakeTx struct {
	pgx.Tx

	execs     []execCall
	failExec  int // 1-based index of the Exec that fails; 0 never fails
	execErr   error
	execTag   string
	row       fakeRow
	commitErr error

	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	if tx.failExec == len(tx.execs) {
		return pgconn.CommandTag{}, tx.execErr
	}
	tag := tx.execTag
	if tag == "" {
		tag = "UPDATE 1"
	}
	return pgconn.NewCommandTag(tag), nil
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	return tx.row
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.committed || tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

// fakeDB stands in for the pool.
type fakeDB struct {
	DBTX

	tx       *fakeTx
	beginErr error
	begins   int

	execs   []execCall
	execTag string
	execErr error
	row     fakeRow
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.begins++
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	if db.execErr != nil {
		return pgconn.CommandTag{}, db.execErr
	}
	return pgconn.NewCommandTag(db.execTag), nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return db.row
}

func newTestStore(t *testing.T, db DBTX) (*Store, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewStore(db, time.Second, nil, reg), reg
}
