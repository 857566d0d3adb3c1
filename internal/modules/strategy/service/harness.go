package service

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
)

// Outcome — итог одного прогона стратегии по рынку.
type Outcome struct {
	Market   string
	Strategy models.StrategyKind
	Decision models.Decision
	Orders   []models.OrderResult
	Err      error
	Duration time.Duration
}

// Harness оборачивает Evaluator: span, метрики, логи, recover.
// Ошибки и паники не выходят наружу, а попадают в Outcome.Err.
type Harness struct {
	eval   *Evaluator
	tracer opentracing.Tracer
	m      *metrics.Metrics
	log    *zap.Logger
}

func NewHarness(eval *Evaluator, tracer opentracing.Tracer, m *metrics.Metrics, log *zap.Logger) *Harness {
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return &Harness{eval: eval, tracer: tracer, m: m, log: log.Named("harness")}
}

func (h *Harness) Evaluate(ctx context.Context, market string, spec models.StrategySpec) (out Outcome) {
	out.Market = market
	if spec != nil {
		out.Strategy = spec.Kind()
	}
	kind := string(out.Strategy)

	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, h.tracer, "strategy.evaluate")
	span.SetTag("market", market)
	span.SetTag("strategy", kind)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Err = errors.Errorf("strategy %s panicked: %v", kind, r)
		}
		out.Duration = time.Since(start)
		h.m.EvaluationDur.WithLabelValues(kind).Observe(out.Duration.Seconds())

		if out.Err != nil {
			ext.Error.Set(span, true)
			span.LogKV("error", out.Err.Error())
			h.m.EvaluationsTotal.WithLabelValues(kind, "error").Inc()
			h.log.Error("[EVAL] failed",
				zap.String("strategy", kind),
				zap.String("market", market),
				zap.Duration("took", out.Duration),
				zap.Error(out.Err),
			)
		} else {
			outcome := "signal"
			if out.Decision.IsHold() {
				outcome = "hold"
			}
			h.m.EvaluationsTotal.WithLabelValues(kind, outcome).Inc()
			for _, s := range out.Decision.Signals {
				h.m.SignalsTotal.WithLabelValues(kind, string(s.Kind)).Inc()
			}
			span.SetTag("signals", len(out.Decision.Actionable()))
			h.log.Debug("[EVAL] done",
				zap.String("strategy", kind),
				zap.String("market", market),
				zap.Int("signals", len(out.Decision.Signals)),
				zap.Duration("took", out.Duration),
			)
		}
		span.Finish()
	}()

	out.Decision, out.Err = h.eval.Evaluate(ctx, market, spec)
	return out
}

// Advance — фиксация состояния стратегии после исполненного решения.
func (h *Harness) Advance(ctx context.Context, market string, spec models.StrategySpec) error {
	return h.eval.Advance(ctx, market, spec)
}
