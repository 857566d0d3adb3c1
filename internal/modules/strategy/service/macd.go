package service

import (
	"context"

	"upbit_bot/internal/indicator"
	"upbit_bot/internal/models"
)

// macd — линия MACD над сигнальной => buy, под ней => sell.
func (e *Evaluator) macd(ctx context.Context, market string, s models.MACDSpec) ([]models.Signal, error) {
	closes, err := e.closes(ctx, market, s.Interval, s.Count)
	if err != nil {
		return nil, err
	}
	res, err := indicator.MACD(closes, s.Fast, s.Slow, s.Signal)
	if err != nil {
		return nil, err
	}
	line, signal := res.LastValues()

	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}
	return e.crossover(s.Kind(), market, line, signal, price, s.Volume, "macd vs signal"), nil
}
