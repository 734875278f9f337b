package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/deppfellow/usergroups/internal/errs"
	"github.com/deppfellow/usergroups/internal/sqlerr"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
// pgx.Tx satisfies it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DefaultTxTimeout bounds a transaction when none is configured.
const DefaultTxTimeout = 5 * time.Second

// rollbackTimeout bounds the rollback issued after a failed or expired
// transaction. It runs on a context detached from the caller's.
const rollbackTimeout = 2 * time.Second

// Store owns the shared pool handle and runs transactions on it.
type Store struct {
	db        DBTX
	txTimeout time.Duration
	log       *zerolog.Logger
	metrics   *storeMetrics
}

// NewStore builds a Store. reg may be nil, in which case metrics are
// collected but not exported.
func NewStore(db DBTX, txTimeout time.Duration, logger *zerolog.Logger, reg prometheus.Registerer) *Store {
	if txTimeout <= 0 {
		txTimeout = DefaultTxTimeout
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Store{
		db:        db,
		txTimeout: txTimeout,
		log:       logger,
		metrics:   newStoreMetrics(reg),
	}
}

// InTx runs fn inside one transaction bounded by the store's timeout.
//
// fn's statements run in sequence on tx and must use the ctx passed to
// fn, which carries the deadline. If fn returns an error, the
// commit fails or the timeout expires, the transaction is rolled back and
// the returned error has kind errs.KindTransactionFailed wrapping the
// cause. The connection goes back to the pool on every path.
func (s *Store) InTx(ctx context.Context, op string, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	defer func() {
		s.metrics.observe(op, err)
	}()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errs.TransactionFailed(op, sqlerr.Classify("begin", err))
	}

	defer func() {
		// After a successful Commit this returns pgx.ErrTxClosed.
		rbCtx, rbCancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer rbCancel()

		if rbErr := tx.Rollback(rbCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.log.Warn().
				Err(rbErr).
				Str("operation", op).
				Msg("transaction rollback failed")
		}
	}()

	if err := fn(ctx, tx); err != nil {
		s.log.Debug().
			Err(err).
			Str("operation", op).
			Msg("rolling back transaction")
		return errs.TransactionFailed(op, sqlerr.Classify(op, err))
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.TransactionFailed(op, sqlerr.Classify("commit", err))
	}

	return nil
}
