package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"upbit_bot/internal/models"
	"upbit_bot/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	uuid        TEXT PRIMARY KEY,
	market      TEXT        NOT NULL,
	side        TEXT        NOT NULL,
	ord_type    TEXT        NOT NULL,
	price       NUMERIC     NOT NULL,
	volume      NUMERIC     NOT NULL,
	state       TEXT        NOT NULL,
	strategy    TEXT        NOT NULL,
	reason      TEXT        NOT NULL DEFAULT '',
	signal      JSONB       NOT NULL,
	response    JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS martingale_attempts (
	market      TEXT PRIMARY KEY,
	attempts    INT         NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const (
	insertOrderSQL = `INSERT INTO orders
	(uuid, market, side, ord_type, price, volume, state, strategy, reason, signal, response, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (uuid) DO NOTHING`

	selectAttemptsSQL = `SELECT attempts FROM martingale_attempts WHERE market = $1`

	upsertAttemptsSQL = `INSERT INTO martingale_attempts (market, attempts, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (market) DO UPDATE SET attempts = EXCLUDED.attempts, updated_at = now()`
)

// Repository — журнал ордеров и счётчик попыток martingale.
type Repository struct {
	db  db.TxManager
	now func() time.Time
}

// NewRepository instance
func NewRepository(tx db.TxManager) *Repository {
	return &Repository{db: tx, now: time.Now}
}

// EnsureSchema создаёт таблицы, если их нет.
func (r *Repository) EnsureSchema(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.EnsureSchema: %w", err)
		}
	}()
	_, err = r.db.Conn().Exec(ctx, schema)
	return err
}

// RecordOrder — строка в orders на каждый принятый биржей ордер.
func (r *Repository) RecordOrder(ctx context.Context, sig models.Signal, res models.OrderResult) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.RecordOrder: %w", err)
		}
	}()

	signal, err := sonic.Marshal(sig)
	if err != nil {
		return err
	}
	var response []byte
	if sonic.Valid(res.Raw) {
		response = res.Raw
	}
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	price, volume := res.Price, res.Volume
	if price == "" {
		price = fmt.Sprint(sig.Price)
	}
	if volume == "" {
		volume = fmt.Sprint(sig.Volume)
	}

	return r.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, insertOrderSQL,
			res.UUID, sig.Market, string(res.Side), res.OrdType, price, volume, res.State,
			string(sig.Strategy), sig.Reason, signal, response, createdAt,
		)
		return err
	})
}

// Get — номер следующей попытки; нет строки — 0.
func (r *Repository) Get(ctx context.Context, market string) (n int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Attempts.Get: %w", err)
		}
	}()
	err = r.db.Conn().QueryRow(ctx, selectAttemptsSQL, market).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (r *Repository) Set(ctx context.Context, market string, n int) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Attempts.Set: %w", err)
		}
	}()
	return r.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, upsertAttemptsSQL, market, n)
		return err
	})
}
