package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"upbit_bot/internal/models"
)

// Evaluator сводит рыночные данные к решению стратегии. Ордеров не выставляет.
type Evaluator struct {
	data     MarketData
	wallet   Wallet
	attempts AttemptStore
	log      *zap.Logger
}

func NewEvaluator(data MarketData, wallet Wallet, attempts AttemptStore, log *zap.Logger) *Evaluator {
	if attempts == nil {
		attempts = NewMemoryAttempts()
	}
	return &Evaluator{
		data:     data,
		wallet:   wallet,
		attempts: attempts,
		log:      log.Named("strategy"),
	}
}

// Evaluate — исчерпывающий разбор варианта стратегии.
func (e *Evaluator) Evaluate(ctx context.Context, market string, spec models.StrategySpec) (models.Decision, error) {
	if spec == nil {
		return models.Decision{Market: market}, fmt.Errorf("%w: nil spec", models.ErrUnsupportedStrategy)
	}

	var (
		sigs []models.Signal
		err  error
	)
	switch s := spec.(type) {
	case models.SimpleSpec:
		sigs, err = e.simple(ctx, market, s)
	case models.MovingAverageSpec:
		sigs, err = e.movingAverage(ctx, market, s)
	case models.RSISpec:
		sigs, err = e.rsi(ctx, market, s)
	case models.BollingerSpec:
		sigs, err = e.bollinger(ctx, market, s)
	case models.TrendFollowingSpec:
		sigs, err = e.trendFollowing(ctx, market, s)
	case models.MACDSpec:
		sigs, err = e.macd(ctx, market, s)
	case models.GridSpec:
		sigs, err = e.grid(ctx, market, s)
	case models.MartingaleSpec:
		sigs, err = e.martingale(ctx, market, s)
	default:
		err = fmt.Errorf("%w: %T", models.ErrUnsupportedStrategy, spec)
	}

	dec := models.Decision{Strategy: spec.Kind(), Market: market}
	if err != nil {
		return dec, err
	}
	for i := range sigs {
		sigs[i].Strategy = spec.Kind()
	}
	dec.Signals = sigs
	return dec, nil
}

// closes — цены закрытия count последних свечей, старые первыми.
func (e *Evaluator) closes(ctx context.Context, market string, interval models.Interval, count int) ([]float64, error) {
	series, err := e.data.GetCandles(ctx, market, interval, count)
	if err != nil {
		return nil, err
	}
	return series.Closes(), nil
}

// crossover — общий случай "цена/линия против эталона":
// выше => buy, ниже => sell, равенство => hold (логируется на info).
func (e *Evaluator) crossover(kind models.StrategyKind, market string, value, ref, price, volume float64, what string) []models.Signal {
	switch {
	case value > ref:
		return []models.Signal{models.Buy(market, price, volume, fmt.Sprintf("%s %.8g > %.8g", what, value, ref))}
	case value < ref:
		return []models.Signal{models.Sell(market, price, volume, fmt.Sprintf("%s %.8g < %.8g", what, value, ref))}
	}
	return []models.Signal{e.hold(kind, market, fmt.Sprintf("%s %.8g == %.8g", what, value, ref))}
}

func (e *Evaluator) hold(kind models.StrategyKind, market, reason string) models.Signal {
	e.log.Info("[EVAL] hold",
		zap.String("strategy", string(kind)),
		zap.String("market", market),
		zap.String("reason", reason),
	)
	return models.Hold(market, reason)
}
