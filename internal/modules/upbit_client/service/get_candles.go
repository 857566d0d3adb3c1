package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"upbit_bot/internal/models"
)

// maxCandleCount — лимит Upbit на один запрос свечей.
const maxCandleCount = 200

// GetCandles — последние count свечей рынка. Upbit отдаёт newest-first,
// разворачиваем, чтобы серия шла по времени. Ошибки => *models.DataFetchError.
func (c *Client) GetCandles(ctx context.Context, market string, interval models.Interval, count int) (models.CandleSeries, error) {
	const op = "GetCandles"
	fail := func(err error) (models.CandleSeries, error) {
		return models.CandleSeries{}, &models.DataFetchError{Op: op, Market: market, Err: err}
	}

	if count <= 0 || count > maxCandleCount {
		return fail(fmt.Errorf("count must be in 1..%d, got %d", maxCandleCount, count))
	}
	path, err := interval.Path()
	if err != nil {
		return fail(err)
	}
	q := url.Values{
		"market": {market},
		"count":  {strconv.Itoa(count)},
	}.Encode()

	var body []byte
	err = c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return err
		}
		body, err = c.do(req, op)
		return err
	})
	if err != nil {
		return fail(err)
	}

	var rows []candleDTO
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return fail(fmt.Errorf("decode candles: %w", err))
	}

	out := make([]models.Candle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r.TradePrice <= 0 {
			return fail(fmt.Errorf("bad close %v at %s", r.TradePrice, r.CandleDateTimeUTC))
		}
		ts, err := time.Parse("2006-01-02T15:04:05", r.CandleDateTimeUTC)
		if err != nil {
			ts = time.UnixMilli(r.Timestamp).UTC()
		}
		out = append(out, models.Candle{
			Open:      r.OpeningPrice,
			High:      r.HighPrice,
			Low:       r.LowPrice,
			Close:     r.TradePrice,
			Volume:    r.CandleAccTradeVolume,
			Timestamp: ts,
		})
	}

	return models.CandleSeries{Market: market, Interval: interval, Candles: out}, nil
}
