package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	DSN string
}

// PgTxManager — пул Postgres и транзакции read committed поверх него.
type PgTxManager struct {
	pool *pgxpool.Pool
}

// Connect поднимает пул и проверяет соединение.
func Connect(ctx context.Context, conf PoolConfig) (*PgTxManager, error) {
	pc, err := pgxpool.ParseConfig(conf.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &PgTxManager{pool: pool}, nil
}

func (m *PgTxManager) Close() { m.pool.Close() }

func (m *PgTxManager) Conn() Transaction { return m.pool }

// RunMaster — fn в транзакции; ошибка или паника внутри откатывают её.
func (m *PgTxManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx Transaction) error) error {
	return pgx.BeginTxFunc(ctx, m.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
