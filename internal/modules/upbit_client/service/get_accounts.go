package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"

	"upbit_bot/internal/models"
)

// Accounts — все балансы аккаунта (GET /accounts, приватный).
func (c *Client) Accounts(ctx context.Context) ([]models.AccountBalance, error) {
	const op = "Accounts"

	var body []byte
	err := c.withRetry(ctx, op, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/accounts", "", nil)
		if err != nil {
			return err
		}
		if err := c.authorize(req, ""); err != nil {
			return err
		}
		body, err = c.do(req, op)
		return err
	})
	if err != nil {
		return nil, gatewayError(op, err)
	}

	var rows []accountDTO
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return nil, gatewayError(op, fmt.Errorf("decode accounts: %w", err))
	}

	out := make([]models.AccountBalance, 0, len(rows))
	for _, r := range rows {
		bal, err := strconv.ParseFloat(r.Balance, 64)
		if err != nil {
			return nil, gatewayError(op, fmt.Errorf("balance %s: %w", r.Currency, err))
		}
		locked, _ := strconv.ParseFloat(r.Locked, 64)
		avg, _ := strconv.ParseFloat(r.AvgBuyPrice, 64)
		out = append(out, models.AccountBalance{
			Currency:     r.Currency,
			Balance:      bal,
			Locked:       locked,
			AvgBuyPrice:  avg,
			UnitCurrency: r.UnitCurrency,
		})
	}
	return out, nil
}

// GetBalance — свободный баланс валюты; если строки нет — 0 без ошибки.
func (c *Client) GetBalance(ctx context.Context, currency string) (float64, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return 0, err
	}
	for _, a := range accounts {
		if a.Currency == currency {
			return a.Balance, nil
		}
	}
	return 0, nil
}
