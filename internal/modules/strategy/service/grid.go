package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"upbit_bot/internal/models"
)

// grid — лестница ордеров вокруг текущей цены: на каждой ступени i
// покупка по base*(1-spacing*i) и продажа по base*(1+spacing*i).
func (e *Evaluator) grid(ctx context.Context, market string, s models.GridSpec) ([]models.Signal, error) {
	if s.Levels <= 0 || s.Spacing <= 0 || s.Spacing*float64(s.Levels) >= 1 {
		return nil, errors.Errorf("grid: invalid spacing=%v levels=%d", s.Spacing, s.Levels)
	}

	base, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}

	out := make([]models.Signal, 0, 2*s.Levels)
	for i := 1; i <= s.Levels; i++ {
		step := s.Spacing * float64(i)
		out = append(out,
			models.Buy(market, base*(1-step), s.Volume, fmt.Sprintf("grid level -%d", i)),
			models.Sell(market, base*(1+step), s.Volume, fmt.Sprintf("grid level +%d", i)),
		)
	}
	return out, nil
}
