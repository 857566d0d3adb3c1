package observability

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/modules/config"
	"upbit_bot/pkg/logger"
	"upbit_bot/pkg/tracing"
)

func NewLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(logger.Config{
		ServiceName: cfg.Service.Name,
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}

func NewTracer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (opentracing.Tracer, error) {
	tracer, closer, err := tracing.InitTracer(tracing.Config{
		ServiceName: cfg.Service.Name,
		Enabled:     cfg.Tracing.Enabled,
		Host:        cfg.Tracing.Host,
		Port:        cfg.Tracing.Port,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Tracing.Enabled {
		log.Info("[TRACE] jaeger enabled", zap.String("host", cfg.Tracing.Host), zap.Int("port", cfg.Tracing.Port))
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return closer.Close() },
	})
	return tracer, nil
}

// NewRegistry — свой реестр вместо глобального, плюс go/process коллекторы.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Module — логгер, трейсер и метрики для всех бинарей.
func Module() fx.Option {
	return fx.Module("observability",
		fx.Provide(
			NewLogger,
			NewTracer,
			NewRegistry,
			func(r *prometheus.Registry) prometheus.Registerer { return r },
			func(r *prometheus.Registry) prometheus.Gatherer { return r },
			metrics.NewMetrics,
		),
	)
}
