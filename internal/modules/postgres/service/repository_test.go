package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upbit_bot/internal/models"
	"upbit_bot/pkg/db"
)

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	n   int
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.n
	return nil
}

// fakeTx — db.TxManager и db.Transaction в одном: пишет Exec, отдаёт row.
type fakeTx struct {
	execs   []execCall
	row     fakeRow
	execErr error
	txRuns  int
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row { return f.row }

func (f *fakeTx) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx db.Transaction) error) error {
	f.txRuns++
	return fn(ctx, f)
}

func (f *fakeTx) Conn() db.Transaction { return f }

func TestRecordOrder(t *testing.T) {
	tx := &fakeTx{}
	repo := NewRepository(tx)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	sig := models.Buy("KRW-BTC", 50_000_000, 0.001, "rsi 25.00 below 30.00")
	sig.Strategy = models.StrategyRSI
	res := models.OrderResult{UUID: "u-1", Side: models.OrderSideBid, OrdType: "limit", Price: "50000000", Volume: "0.001", State: "wait", Raw: []byte(`{"uuid":"u-1"}`)}

	require.NoError(t, repo.RecordOrder(context.Background(), sig, res))
	require.Len(t, tx.execs, 1)
	assert.Equal(t, 1, tx.txRuns)

	args := tx.execs[0].args
	require.Len(t, args, 12)
	assert.Equal(t, "u-1", args[0])
	assert.Equal(t, "KRW-BTC", args[1])
	assert.Equal(t, "bid", args[2])
	assert.Equal(t, "rsi", args[7])
	assert.Contains(t, string(args[9].([]byte)), `"Reason":"rsi 25.00 below 30.00"`)
	assert.Equal(t, []byte(`{"uuid":"u-1"}`), args[10])
	assert.Equal(t, fixed, args[11])
}

func TestRecordOrderWrapsErrors(t *testing.T) {
	tx := &fakeTx{execErr: errors.New("duplicate")}
	err := NewRepository(tx).RecordOrder(context.Background(), models.Sell("KRW-ETH", 1, 1, ""), models.OrderResult{UUID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pg.RecordOrder")
}

func TestAttempts(t *testing.T) {
	tx := &fakeTx{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewRepository(tx)

	n, err := repo.Get(context.Background(), "KRW-BTC")
	require.NoError(t, err)
	assert.Zero(t, n)

	tx.row = fakeRow{n: 3}
	n, err = repo.Get(context.Background(), "KRW-BTC")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, repo.Set(context.Background(), "KRW-BTC", 4))
	require.Len(t, tx.execs, 1)
	assert.Equal(t, []any{"KRW-BTC", 4}, tx.execs[0].args)
}

func TestEnsureSchema(t *testing.T) {
	tx := &fakeTx{}
	require.NoError(t, NewRepository(tx).EnsureSchema(context.Background()))
	require.Len(t, tx.execs, 1)
	assert.Contains(t, tx.execs[0].sql, "CREATE TABLE IF NOT EXISTS orders")
	assert.Contains(t, tx.execs[0].sql, "martingale_attempts")
}
