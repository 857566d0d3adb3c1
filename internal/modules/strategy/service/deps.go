package service

import (
	"context"

	"upbit_bot/internal/models"
)

// MarketData — источник цен и свечей для стратегий.
type MarketData interface {
	GetCurrentPrice(ctx context.Context, market string) (float64, error)
	GetCandles(ctx context.Context, market string, interval models.Interval, count int) (models.CandleSeries, error)
}

// Wallet — балансы аккаунта (нужны только simple).
type Wallet interface {
	GetBalance(ctx context.Context, currency string) (float64, error)
}

// OrderGateway — выставление лимитных ордеров.
type OrderGateway interface {
	PlaceLimitOrder(ctx context.Context, market string, side models.OrderSide, price, volume float64) (models.OrderResult, error)
}

// OrderJournal — журнал выставленных ордеров (postgres). Необязателен.
type OrderJournal interface {
	RecordOrder(ctx context.Context, sig models.Signal, res models.OrderResult) error
}
