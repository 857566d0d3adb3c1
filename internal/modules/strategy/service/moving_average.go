package service

import (
	"context"

	"upbit_bot/internal/indicator"
	"upbit_bot/internal/models"
)

// movingAverage — короткая SMA против длинной, обе по одной выборке свечей.
// Длинная средняя берётся по всему, что вернула биржа (не больше LongWindow),
// короткая — по последним min(ShortWindow, len) закрытиям.
func (e *Evaluator) movingAverage(ctx context.Context, market string, s models.MovingAverageSpec) ([]models.Signal, error) {
	closes, err := e.closes(ctx, market, s.Interval, s.LongWindow)
	if err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, models.InsufficientData("SMA", s.ShortWindow, 0)
	}
	if len(closes) > s.LongWindow {
		closes = closes[len(closes)-s.LongWindow:]
	}

	short, err := indicator.SMA(closes, min(s.ShortWindow, len(closes)))
	if err != nil {
		return nil, err
	}
	long, err := indicator.SMA(closes, len(closes))
	if err != nil {
		return nil, err
	}

	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}
	return e.crossover(s.Kind(), market, short, long, price, s.Volume, "sma_short vs sma_long"), nil
}
