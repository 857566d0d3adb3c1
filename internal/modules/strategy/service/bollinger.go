package service

import (
	"context"
	"fmt"

	"upbit_bot/internal/indicator"
	"upbit_bot/internal/models"
)

// bollinger — цена под нижней полосой => buy, над верхней => sell.
func (e *Evaluator) bollinger(ctx context.Context, market string, s models.BollingerSpec) ([]models.Signal, error) {
	closes, err := e.closes(ctx, market, s.Interval, s.Window)
	if err != nil {
		return nil, err
	}
	bands, err := indicator.Bollinger(closes, s.Window, s.K)
	if err != nil {
		return nil, err
	}

	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}

	switch {
	case price < bands.Lower:
		return []models.Signal{models.Buy(market, price, s.Volume, fmt.Sprintf("price %.8g < lower %.8g", price, bands.Lower))}, nil
	case price > bands.Upper:
		return []models.Signal{models.Sell(market, price, s.Volume, fmt.Sprintf("price %.8g > upper %.8g", price, bands.Upper))}, nil
	}
	return []models.Signal{e.hold(s.Kind(), market, fmt.Sprintf("price %.8g inside [%.8g, %.8g]", price, bands.Lower, bands.Upper))}, nil
}
