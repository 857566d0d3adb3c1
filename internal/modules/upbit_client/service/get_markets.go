package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"upbit_bot/internal/models"
)

// Markets — все коды рынков (GET /market/all).
func (c *Client) Markets(ctx context.Context) ([]string, error) {
	const op = "Markets"

	var body []byte
	err := c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/market/all", "", nil)
		if err != nil {
			return err
		}
		body, err = c.do(req, op)
		return err
	})
	if err != nil {
		return nil, &models.DataFetchError{Op: op, Market: "*", Err: err}
	}

	var rows []marketDTO
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return nil, &models.DataFetchError{Op: op, Market: "*", Err: fmt.Errorf("decode markets: %w", err)}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Market != "" {
			out = append(out, r.Market)
		}
	}
	return out, nil
}

// MarketsWithPrefix — рынки с префиксом котируемой валюты, например "KRW-".
func (c *Client) MarketsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	all, err := c.Markets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, m := range all {
		if strings.HasPrefix(m, prefix) {
			out = append(out, m)
		}
	}
	return out, nil
}

// KRWMarkets — рынки в вонах.
func (c *Client) KRWMarkets(ctx context.Context) ([]string, error) {
	return c.MarketsWithPrefix(ctx, "KRW-")
}
