package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// retryable — сетевые ошибки, 429 и 5xx. Только для идемпотентных чтений;
// выставление ордера через withRetry не проходит никогда.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status/100 == 5
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return false
}

// withRetry — не более retryMax попыток с экспоненциальной паузой.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := c.retryMax
	if attempts < 1 {
		attempts = 1
	}
	backoff := c.retryBackoff

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !retryable(err) || i == attempts-1 {
			return err
		}
		c.m.RESTRetries.WithLabelValues(op).Inc()
		c.log.Warn("[REST] retry",
			zap.String("op", op),
			zap.Int("attempt", i+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		backoff *= 2
	}
	return err
}
