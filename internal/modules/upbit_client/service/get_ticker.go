package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// GetCurrentPrice — последняя цена сделки по рынку (GET /ticker).
// Битый ответ или не-2xx => *models.GatewayError.
func (c *Client) GetCurrentPrice(ctx context.Context, market string) (float64, error) {
	const op = "GetCurrentPrice"
	q := url.Values{"markets": {market}}.Encode()

	var body []byte
	err := c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/ticker", q, nil)
		if err != nil {
			return err
		}
		body, err = c.do(req, op)
		return err
	})
	if err != nil {
		return 0, gatewayError(op, err)
	}

	var rows []tickerDTO
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return 0, gatewayError(op, fmt.Errorf("decode ticker: %w", err))
	}
	if len(rows) == 0 {
		return 0, gatewayError(op, fmt.Errorf("empty ticker for %s", market))
	}
	price := rows[0].TradePrice
	if price <= 0 {
		return 0, gatewayError(op, fmt.Errorf("bad trade_price %v for %s", price, market))
	}

	c.log.Debug("[TICKER] current price", zap.String("market", market), zap.Float64("price", price))
	return price, nil
}
