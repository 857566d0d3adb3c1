package strategy

import (
	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/strategy/service"
	upbit "upbit_bot/internal/modules/upbit_client/service"
	"upbit_bot/internal/notify"
)

type evaluatorIn struct {
	fx.In

	Client   *upbit.Client
	Attempts service.AttemptStore `optional:"true"` // postgres, если подключен
	Log      *zap.Logger
}

func newEvaluator(in evaluatorIn) *service.Evaluator {
	return service.NewEvaluator(in.Client, in.Client, in.Attempts, in.Log)
}

func newHarness(e *service.Evaluator, tracer opentracing.Tracer, m *metrics.Metrics, log *zap.Logger) *service.Harness {
	return service.NewHarness(e, tracer, m, log)
}

type executorIn struct {
	fx.In

	Cfg      *config.Config
	Client   *upbit.Client
	Journal  service.OrderJournal `optional:"true"`
	Notifier notify.Notifier      `optional:"true"`
	Log      *zap.Logger
}

func newExecutor(in executorIn) *service.Executor {
	return service.NewExecutor(in.Client, in.Journal, in.Notifier, in.Cfg.Runner.NotifyOrders, in.Log)
}

// Module — оценка стратегий и исполнение сигналов.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			newEvaluator,
			newHarness,
			newExecutor,
			service.NewRouter,
		),
	)
}
