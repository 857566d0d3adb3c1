package models

import (
	"fmt"
	"time"
)

// Interval — гранулярность свечей Upbit.
type Interval string

const (
	IntervalMinute1   Interval = "minute1"
	IntervalMinute3   Interval = "minute3"
	IntervalMinute5   Interval = "minute5"
	IntervalMinute10  Interval = "minute10"
	IntervalMinute15  Interval = "minute15"
	IntervalMinute30  Interval = "minute30"
	IntervalMinute60  Interval = "minute60"
	IntervalMinute240 Interval = "minute240"
	IntervalDay       Interval = "day"
	IntervalWeek      Interval = "week"
	IntervalMonth     Interval = "month"
)

// Path возвращает путь REST-эндпоинта свечей: "/candles/minutes/15", "/candles/days" ...
func (i Interval) Path() (string, error) {
	switch i {
	case IntervalMinute1:
		return "/candles/minutes/1", nil
	case IntervalMinute3:
		return "/candles/minutes/3", nil
	case IntervalMinute5:
		return "/candles/minutes/5", nil
	case IntervalMinute10:
		return "/candles/minutes/10", nil
	case IntervalMinute15:
		return "/candles/minutes/15", nil
	case IntervalMinute30:
		return "/candles/minutes/30", nil
	case IntervalMinute60:
		return "/candles/minutes/60", nil
	case IntervalMinute240:
		return "/candles/minutes/240", nil
	case IntervalDay:
		return "/candles/days", nil
	case IntervalWeek:
		return "/candles/weeks", nil
	case IntervalMonth:
		return "/candles/months", nil
	}
	return "", fmt.Errorf("unsupported candle interval: %q", string(i))
}

// Candle — одна OHLCV-свеча. После возврата из MarketDataSource не меняется.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time // начало свечи, UTC
}

// CandleSeries — свечи одного рынка и интервала, от старой к новой.
type CandleSeries struct {
	Market   string
	Interval Interval
	Candles  []Candle
}

// Closes — колонка цен закрытия, в том же порядке.
func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}
