package composables

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type recordingTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *recordingTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *recordingTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }

type stubDB struct {
	Tx
	tx *recordingTx
}

func (db *stubDB) Begin(ctx context.Context) (pgx.Tx, error) { return db.tx, nil }

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db := &stubDB{tx: &recordingTx{}}
	ctx := WithPool(context.Background(), db)

	var sawTx bool
	err := InTx(ctx, 0, func(txCtx context.Context) error {
		got, err := UseTx(txCtx)
		require.NoError(t, err)
		sawTx = got == db.tx
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := &stubDB{tx: &recordingTx{}}
	ctx := WithPool(context.Background(), db)

	sentinel := errors.New("boom")
	err := InTx(ctx, 0, func(context.Context) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestInTx_JoinsExistingTransaction(t *testing.T) {
	outer := &recordingTx{}
	ctx := WithTx(context.Background(), outer)

	err := InTx(ctx, 0, func(txCtx context.Context) error {
		got, err := UseTx(txCtx)
		require.NoError(t, err)
		assert.Same(t, outer, got)
		return nil
	})
	require.NoError(t, err)
	// The outer owner commits; the joined call must not.
	assert.False(t, outer.committed)
	assert.False(t, outer.rolledBack)
}

func TestInTx_NoPool(t *testing.T) {
	err := InTx(context.Background(), 0, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrNoPool)
}

func TestInTx_DeadlineBecomesRetryable(t *testing.T) {
	db := &stubDB{tx: &recordingTx{}}
	ctx := WithPool(context.Background(), db)

	err := InTx(ctx, 10*time.Millisecond, func(txCtx context.Context) error {
		<-txCtx.Done()
		return txCtx.Err()
	})
	require.Error(t, err)
	assert.True(t, serrors.IsKind(err, serrors.KindUnavailable))
	assert.True(t, serrors.Retryable(err))
	assert.Equal(t, "retry", serrors.CodeOf(err))
	assert.True(t, db.tx.rolledBack)
}

func TestInTx_MapsTransientPgErrors(t *testing.T) {
	for _, code := range []string{"55P03", "40001", "40P01", "57014"} {
		db := &stubDB{tx: &recordingTx{}}
		ctx := WithPool(context.Background(), db)

		err := InTx(ctx, 0, func(context.Context) error {
			return &pgconn.PgError{Code: code, Message: "locked"}
		})
		require.Error(t, err, code)
		assert.True(t, serrors.Retryable(err), code)
	}
}

func TestInTx_LeavesOtherPgErrorsAlone(t *testing.T) {
	db := &stubDB{tx: &recordingTx{}}
	ctx := WithPool(context.Background(), db)

	unique := &pgconn.PgError{Code: "23505", Message: "duplicate key"}
	err := InTx(ctx, 0, func(context.Context) error { return unique })
	require.Error(t, err)
	assert.False(t, serrors.Retryable(err))
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}

func TestInTxResult(t *testing.T) {
	db := &stubDB{tx: &recordingTx{}}
	ctx := WithPool(context.Background(), db)

	out, err := InTxResult(ctx, 0, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}
