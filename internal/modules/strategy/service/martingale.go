package service

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"upbit_bot/internal/models"
)

// martingale — покупки с удвоением объёма.
//
// per_call: все MaxAttempts покупок за один вызов, цена читается перед каждой.
// per_cycle: одна покупка за вызов, номер попытки хранится в AttemptStore
// и растёт только после принятого биржей ордера (Advance);
// после MaxAttempts счётчик сбрасывается и возвращается hold.
func (e *Evaluator) martingale(ctx context.Context, market string, s models.MartingaleSpec) ([]models.Signal, error) {
	if s.MaxAttempts <= 0 || s.BaseVolume <= 0 {
		return nil, errors.Errorf("martingale: invalid base_volume=%v max_attempts=%d", s.BaseVolume, s.MaxAttempts)
	}

	switch s.Mode {
	case models.MartingalePerCall, "":
		out := make([]models.Signal, 0, s.MaxAttempts)
		for i := 0; i < s.MaxAttempts; i++ {
			price, err := e.data.GetCurrentPrice(ctx, market)
			if err != nil {
				return nil, err
			}
			out = append(out, models.Buy(market, price, martingaleVolume(s.BaseVolume, i),
				fmt.Sprintf("martingale attempt %d/%d", i+1, s.MaxAttempts)))
		}
		return out, nil

	case models.MartingalePerCycle:
		n, err := e.attempts.Get(ctx, market)
		if err != nil {
			return nil, errors.Wrap(err, "martingale: load attempts")
		}
		if n >= s.MaxAttempts {
			if err := e.attempts.Set(ctx, market, 0); err != nil {
				return nil, errors.Wrap(err, "martingale: reset attempts")
			}
			return []models.Signal{e.hold(s.Kind(), market, fmt.Sprintf("max attempts %d reached, cycle reset", s.MaxAttempts))}, nil
		}

		price, err := e.data.GetCurrentPrice(ctx, market)
		if err != nil {
			return nil, err
		}
		return []models.Signal{models.Buy(market, price, martingaleVolume(s.BaseVolume, n),
			fmt.Sprintf("martingale attempt %d/%d", n+1, s.MaxAttempts))}, nil
	}
	return nil, errors.Errorf("martingale: unknown mode %q", s.Mode)
}

// Advance засчитывает попытку per_cycle. Для остальных стратегий ничего не делает.
func (e *Evaluator) Advance(ctx context.Context, market string, spec models.StrategySpec) error {
	s, ok := spec.(models.MartingaleSpec)
	if !ok || s.Mode != models.MartingalePerCycle {
		return nil
	}
	n, err := e.attempts.Get(ctx, market)
	if err != nil {
		return errors.Wrap(err, "martingale: load attempts")
	}
	if err := e.attempts.Set(ctx, market, n+1); err != nil {
		return errors.Wrap(err, "martingale: save attempts")
	}
	return nil
}

func martingaleVolume(base float64, attempt int) float64 {
	return base * math.Pow(2, float64(attempt))
}
