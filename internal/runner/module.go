package runner

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/health"
	"upbit_bot/internal/modules/strategy/service"
)

// NewLocker — Redis, если задан redis.addr, иначе блокировка в памяти.
func NewLocker(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Locker, error) {
	if cfg.Redis.Addr == "" {
		return NewMemoryLocker(), nil
	}
	l, err := NewRedisLocker(context.Background(), cfg.Redis.Addr, cfg.Redis.LockTTL)
	if err != nil {
		return nil, err
	}
	log.Info("[RUNNER] redis market lock enabled", zap.String("addr", cfg.Redis.Addr))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return l.Close() },
	})
	return l, nil
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewLocker,
			func(r *service.Router) Dispatcher { return r },
			New,
			func(r *Runner) health.RunReporter { return r },
		),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, r *Runner) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					r.Start(context.Background())
					if cfg.Runner.Interval <= 0 {
						// одиночный проход: после него гасим приложение
						go func() {
							<-r.Done()
							_ = sd.Shutdown()
						}()
					}
					return nil
				},
				OnStop: func(context.Context) error {
					r.Stop()
					return nil
				},
			})
		}),
	)
}
