package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/modules/config"
	pg "upbit_bot/internal/modules/postgres/service"
	strategy "upbit_bot/internal/modules/strategy/service"
	"upbit_bot/pkg/db"
)

func newTxManager(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
	m, err := db.Connect(context.Background(), db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			m.Close()
			return nil
		},
	})
	log.Info("[PG] connected")
	return m, nil
}

// Module — журнал ордеров и счётчик martingale в Postgres.
// Подключается только при заданном db_dsn.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			newTxManager,
			func(m *db.PgTxManager) db.TxManager { return m },
			pg.NewRepository,
			func(r *pg.Repository) strategy.OrderJournal { return r },
			func(r *pg.Repository) strategy.AttemptStore { return r },
		),
		fx.Invoke(func(lc fx.Lifecycle, r *pg.Repository) {
			lc.Append(fx.Hook{
				OnStart: r.EnsureSchema,
			})
		}),
	)
}
