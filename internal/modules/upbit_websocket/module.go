package upbit_websocket

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	upbit "upbit_bot/internal/modules/upbit_client/service"
	"upbit_bot/internal/modules/upbit_websocket/service"
)

// Module — одиночный замер объёмов: после отправки рейтинга приложение гасится.
func Module() fx.Option {
	return fx.Module("upbit_websocket",
		fx.Provide(
			func(c *upbit.Client) service.MarketLister { return c },
			service.NewSampler,
		),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, s *service.Sampler, log *zap.Logger) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						defer close(done)
						top, err := s.Run(ctx)
						if err != nil {
							log.Error("[SAMPLER] failed", zap.Error(err))
							_ = sd.Shutdown(fx.ExitCode(1))
							return
						}
						log.Info("[SAMPLER] done", zap.Int("ranked", len(top)))
						_ = sd.Shutdown()
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					<-done
					return nil
				},
			})
		}),
	)
}
