package runner

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/modules/strategy/service"
)

// Dispatcher — то, что Runner вызывает для каждой пары рынок/стратегия.
type Dispatcher interface {
	Run(ctx context.Context, market string, spec models.StrategySpec) service.Outcome
	Dispatch(ctx context.Context, market, name string) service.Outcome
}

// job — разобранная запись runner.jobs. spec == nil — имя не распознано,
// уходит в Dispatch и там пропускается с предупреждением.
type job struct {
	market string
	name   string
	spec   models.StrategySpec
}

// Runner гоняет задания по кругу с интервалом; interval == 0 — один проход.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	interval time.Duration
	jobs     []job
	d        Dispatcher
	locker   Locker
	m        *metrics.Metrics
	log      *zap.Logger

	mu       sync.Mutex
	lastRun  time.Time
	lastErrs int
}

func New(cfg *config.Config, d Dispatcher, locker Locker, m *metrics.Metrics, log *zap.Logger) (*Runner, error) {
	log = log.Named("runner")
	if locker == nil {
		locker = NewMemoryLocker()
	}

	jobs := make([]job, 0, len(cfg.Runner.Jobs))
	for i, j := range cfg.Runner.Jobs {
		spec, err := service.SpecFromParams(j.Strategy, j.Params)
		switch {
		case errors.Is(err, models.ErrUnsupportedStrategy):
			spec = nil
		case err != nil:
			return nil, errors.Wrapf(err, "runner.jobs[%d] %s/%s", i, j.Market, j.Strategy)
		}
		jobs = append(jobs, job{market: j.Market, name: j.Strategy, spec: spec})
	}

	return &Runner{
		done:     make(chan struct{}),
		interval: cfg.Runner.Interval,
		jobs:     jobs,
		d:        d,
		locker:   locker,
		m:        m,
		log:      log,
	}, nil
}

// Start запускает цикл в отдельной горутине.
func (r *Runner) Start(parent context.Context) {
	r.ctx, r.cancel = context.WithCancel(parent)
	go r.loop(r.ctx)
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// Done закрывается после последнего прохода.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	r.log.Info("[RUNNER] started", zap.Int("jobs", len(r.jobs)), zap.Duration("interval", r.interval))

	r.RunOnce(ctx)
	if r.interval <= 0 {
		r.log.Info("[RUNNER] single pass finished")
		return
	}

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("[RUNNER] stopped")
			return
		case <-t.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce — один проход по всем заданиям. Ошибка задания не прерывает остальные.
func (r *Runner) RunOnce(ctx context.Context) []service.Outcome {
	outs := make([]service.Outcome, 0, len(r.jobs))
	failed := 0
	for _, j := range r.jobs {
		if ctx.Err() != nil {
			break
		}
		out, ran := r.runJob(ctx, j)
		if !ran {
			continue
		}
		if out.Err != nil {
			failed++
		}
		outs = append(outs, out)
	}

	r.mu.Lock()
	r.lastRun = time.Now()
	r.lastErrs = failed
	r.mu.Unlock()
	return outs
}

func (r *Runner) runJob(ctx context.Context, j job) (service.Outcome, bool) {
	release, ok, err := r.locker.TryLock(ctx, j.market)
	if err != nil {
		r.log.Error("[RUNNER] lock failed", zap.String("market", j.market), zap.Error(err))
		return service.Outcome{}, false
	}
	if !ok {
		r.m.LockBusyTotal.WithLabelValues(j.market).Inc()
		r.log.Warn("[RUNNER] market busy, skip", zap.String("market", j.market), zap.String("strategy", j.name))
		return service.Outcome{}, false
	}
	defer release()

	if j.spec == nil {
		return r.d.Dispatch(ctx, j.market, j.name), true
	}
	return r.d.Run(ctx, j.market, j.spec), true
}

// LastRun — время последнего прохода и число заданий с ошибкой.
func (r *Runner) LastRun() (time.Time, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.lastErrs
}
