package service

import (
	"context"
	"fmt"

	"upbit_bot/internal/helper"
	"upbit_bot/internal/models"
)

// simple — покупка ниже рынка при наличии денег, продажа выше рынка при
// наличии монеты. Оба сигнала могут сработать за один вызов.
func (e *Evaluator) simple(ctx context.Context, market string, s models.SimpleSpec) ([]models.Signal, error) {
	price, err := e.data.GetCurrentPrice(ctx, market)
	if err != nil {
		return nil, err
	}

	quote := s.QuoteCcy
	if quote == "" {
		quote = helper.QuoteCurrency(market)
	}
	cash, err := e.wallet.GetBalance(ctx, quote)
	if err != nil {
		return nil, err
	}
	coin, err := e.wallet.GetBalance(ctx, helper.BaseCurrency(market))
	if err != nil {
		return nil, err
	}

	var out []models.Signal
	if cash > s.CashFloor {
		out = append(out, models.Buy(market, price*(1-s.BuyDiscount), s.Volume,
			fmt.Sprintf("%s balance %.8g > %.8g", quote, cash, s.CashFloor)))
	}
	if coin > 0 {
		out = append(out, models.Sell(market, price*(1+s.SellPremium), s.Volume,
			fmt.Sprintf("%s balance %.8g", helper.BaseCurrency(market), coin)))
	}
	if len(out) == 0 {
		out = append(out, e.hold(s.Kind(), market, "no cash above floor and no coin"))
	}
	return out, nil
}
