package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"upbit_bot/internal/models"
)

// Router — реестр стратегий по имени. Dispatch тотальна по строкам:
// неизвестное имя даёт warning и ни одного обращения к бирже.
type Router struct {
	h   *Harness
	x   *Executor
	log *zap.Logger

	mu       sync.RWMutex
	registry map[models.StrategyKind]models.StrategySpec
}

func NewRouter(h *Harness, x *Executor, log *zap.Logger) *Router {
	r := &Router{
		h:        h,
		x:        x,
		log:      log.Named("router"),
		registry: make(map[models.StrategyKind]models.StrategySpec, len(models.StrategyKinds)),
	}
	for _, k := range models.StrategyKinds {
		spec, err := models.DefaultSpec(k)
		if err != nil {
			panic(err) // StrategyKinds и DefaultSpec рассинхронизированы
		}
		r.registry[k] = spec
	}
	return r
}

// Register заменяет параметры стратегии в реестре.
func (r *Router) Register(spec models.StrategySpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[spec.Kind()] = spec
}

func (r *Router) Lookup(name string) (models.StrategySpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.registry[models.StrategyKind(name)]
	return spec, ok
}

// Dispatch — прогон стратегии по имени с параметрами из реестра.
func (r *Router) Dispatch(ctx context.Context, market, name string) Outcome {
	spec, ok := r.Lookup(name)
	if !ok {
		r.log.Warn("[ROUTER] unsupported strategy", zap.String("name", name), zap.String("market", market))
		return Outcome{
			Market:   market,
			Strategy: models.StrategyKind(name),
			Err:      fmt.Errorf("%w: %q", models.ErrUnsupportedStrategy, name),
		}
	}
	return r.Run(ctx, market, spec)
}

// Run — оценка и исполнение решения. Паника на любом шаге становится Outcome.Err.
func (r *Router) Run(ctx context.Context, market string, spec models.StrategySpec) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out.Market = market
			out.Err = errors.Errorf("strategy %s on %s panicked: %v", out.Strategy, market, rec)
			r.log.Error("[ROUTER] recovered", zap.String("market", market), zap.Error(out.Err))
		}
	}()

	out = r.h.Evaluate(ctx, market, spec)
	if out.Err != nil {
		return out
	}
	out.Orders, out.Err = r.x.Execute(ctx, out.Decision)
	if out.Err != nil || len(out.Orders) == 0 {
		return out
	}
	if err := r.h.Advance(ctx, market, spec); err != nil {
		r.log.Error("[ROUTER] advance failed", zap.String("market", market), zap.Error(err))
		out.Err = err
	}
	return out
}
