package helper

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"upbit_bot/internal/models"
)

// NormInterval приводит "15m", "minute15", "1h", "1d", "day" к models.Interval.
func NormInterval(raw string) (models.Interval, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "1m", "minute1":
		return models.IntervalMinute1, nil
	case "3m", "minute3":
		return models.IntervalMinute3, nil
	case "5m", "minute5":
		return models.IntervalMinute5, nil
	case "10m", "minute10":
		return models.IntervalMinute10, nil
	case "15m", "minute15":
		return models.IntervalMinute15, nil
	case "30m", "minute30":
		return models.IntervalMinute30, nil
	case "60m", "1h", "minute60":
		return models.IntervalMinute60, nil
	case "240m", "4h", "minute240":
		return models.IntervalMinute240, nil
	case "1d", "d", "day", "days":
		return models.IntervalDay, nil
	case "1w", "w", "week", "weeks":
		return models.IntervalWeek, nil
	case "1mo", "month", "months":
		return models.IntervalMonth, nil
	}
	return "", fmt.Errorf("unsupported interval: %q", raw)
}

// tickTable — шаг цены KRW-рынка Upbit по нижней границе диапазона.
var tickTable = []struct {
	from decimal.Decimal
	tick decimal.Decimal
}{
	{decimal.NewFromInt(2_000_000), decimal.NewFromInt(1000)},
	{decimal.NewFromInt(1_000_000), decimal.NewFromInt(500)},
	{decimal.NewFromInt(500_000), decimal.NewFromInt(100)},
	{decimal.NewFromInt(100_000), decimal.NewFromInt(50)},
	{decimal.NewFromInt(10_000), decimal.NewFromInt(10)},
	{decimal.NewFromInt(1_000), decimal.NewFromInt(1)},
	{decimal.NewFromInt(100), decimal.RequireFromString("0.1")},
	{decimal.NewFromInt(10), decimal.RequireFromString("0.01")},
	{decimal.NewFromInt(1), decimal.RequireFromString("0.001")},
	{decimal.RequireFromString("0.1"), decimal.RequireFromString("0.0001")},
	{decimal.RequireFromString("0.01"), decimal.RequireFromString("0.00001")},
	{decimal.RequireFromString("0.001"), decimal.RequireFromString("0.000001")},
	{decimal.RequireFromString("0.0001"), decimal.RequireFromString("0.0000001")},
}

var minTick = decimal.RequireFromString("0.00000001")

// KRWTickSize — шаг цены для KRW-рынка.
func KRWTickSize(px decimal.Decimal) decimal.Decimal {
	for _, row := range tickTable {
		if px.GreaterThanOrEqual(row.from) {
			return row.tick
		}
	}
	return minTick
}

func RoundDownToTick(px, tick decimal.Decimal) decimal.Decimal {
	if !tick.IsPositive() {
		return px
	}
	return px.Div(tick).Floor().Mul(tick)
}

func RoundUpToTick(px, tick decimal.Decimal) decimal.Decimal {
	if !tick.IsPositive() {
		return px
	}
	return px.Div(tick).Ceil().Mul(tick)
}

// QuoteCurrency — "KRW" из "KRW-BTC".
func QuoteCurrency(market string) string {
	if i := strings.IndexByte(market, '-'); i > 0 {
		return market[:i]
	}
	return market
}

// BaseCurrency — "BTC" из "KRW-BTC".
func BaseCurrency(market string) string {
	if i := strings.IndexByte(market, '-'); i >= 0 && i < len(market)-1 {
		return market[i+1:]
	}
	return market
}
