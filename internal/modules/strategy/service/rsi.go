package service

import (
	"context"
	"fmt"

	"upbit_bot/internal/indicator"
	"upbit_bot/internal/models"
)

// rsi — перепроданность => buy, перекупленность => sell.
func (e *Evaluator) rsi(ctx context.Context, market string, s models.RSISpec) ([]models.Signal, error) {
	closes, err := e.closes(ctx, market, s.Interval, s.Count)
	if err != nil {
		return nil, err
	}
	value, err := indicator.RSI(closes, s.Period)
	if err != nil {
		return nil, err
	}

	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}

	switch {
	case value < s.Oversold:
		return []models.Signal{models.Buy(market, price, s.Volume, fmt.Sprintf("rsi %.2f < %.2f", value, s.Oversold))}, nil
	case value > s.Overbought:
		return []models.Signal{models.Sell(market, price, s.Volume, fmt.Sprintf("rsi %.2f > %.2f", value, s.Overbought))}, nil
	}
	return []models.Signal{e.hold(s.Kind(), market, fmt.Sprintf("rsi %.2f in [%.2f, %.2f]", value, s.Oversold, s.Overbought))}, nil
}
