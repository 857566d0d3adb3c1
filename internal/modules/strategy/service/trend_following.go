package service

import (
	"context"

	"upbit_bot/internal/indicator"
	"upbit_bot/internal/models"
)

func (e *Evaluator) trendFollowing(ctx context.Context, market string, s models.TrendFollowingSpec) ([]models.Signal, error) {
	closes, err := e.closes(ctx, market, s.Interval, s.Count)
	if err != nil {
		return nil, err
	}
	trend, err := indicator.SMA(closes, s.Window)
	if err != nil {
		return nil, err
	}

	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}
	return e.crossover(s.Kind(), market, price, trend, price, s.Volume, "price vs trend"), nil
}
