package composables

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type ctxKey int

const (
	txKey ctxKey = iota
	poolKey
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

// Tx is the query surface repositories need. Both pgx.Tx and *pgxpool.Pool
// satisfy it, so repositories work inside and outside explicit transactions.
type Tx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DB is what InTx needs from the connection source. *pgxpool.Pool satisfies
// it; tests may substitute their own.
type DB interface {
	Tx
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ DB = (*pgxpool.Pool)(nil)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

func UseTx(ctx context.Context) (Tx, error) {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok && tx != nil {
		return tx, nil
	}
	return UsePool(ctx)
}

func WithPool(ctx context.Context, db DB) context.Context {
	return context.WithValue(ctx, poolKey, db)
}

func UsePool(ctx context.Context) (DB, error) {
	db, ok := ctx.Value(poolKey).(DB)
	if !ok || db == nil {
		return nil, ErrNoPool
	}
	return db, nil
}

// InTx runs fn inside a new transaction bounded by timeout. A zero timeout
// means no deadline beyond the caller's context. If the context already
// carries a transaction, fn joins it and the outer owner commits.
//
// Lock contention and deadline expiry surface as a retryable Unavailable
// error so callers can back off and retry; the re-checked preconditions make
// a retry safe.
func InTx(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(txKey).(pgx.Tx); ok && existing != nil {
		return mapTxErr(fn(ctx))
	}

	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return mapTxErr(err)
	}

	txCtx := WithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(mapTxErr(err), rErr)
		}
		return mapTxErr(err)
	}
	return mapTxErr(tx.Commit(ctx))
}

// InTxResult is InTx for functions that produce a value.
func InTxResult[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTx(ctx, timeout, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}

// Postgres error codes that indicate transient serialization trouble rather
// than a real failure.
const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
)

func mapTxErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.NewUnavailable("retry", "transaction deadline exceeded")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled:
			return serrors.NewUnavailable("retry", pgErr.Message)
		}
	}
	return err
}
