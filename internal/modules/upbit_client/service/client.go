package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
)

// Client — REST-клиент Upbit: рыночные данные (MarketDataSource) и
// ордера/балансы (OrderGateway).
type Client struct {
	http    *http.Client
	baseURL string
	signer  Signer
	log     *zap.Logger
	m       *metrics.Metrics

	roundToTick  bool
	retryMax     int
	retryBackoff time.Duration
}

func NewClient(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *Client {
	var signer Signer
	if cfg.HasCredentials() {
		signer = NewJWTSigner(cfg.Upbit.AccessKey, cfg.Upbit.SecretKey)
	}
	return &Client{
		http:         &http.Client{Timeout: cfg.Upbit.HTTPTimeout},
		baseURL:      strings.TrimRight(cfg.Upbit.RESTURL, "/"),
		signer:       signer,
		log:          log.Named("upbit"),
		m:            m,
		roundToTick:  cfg.Upbit.RoundToTick,
		retryMax:     cfg.Upbit.Retry.MaxAttempts,
		retryBackoff: cfg.Upbit.Retry.Backoff,
	}
}

// SetSigner подменяет подпись (тесты, другие схемы авторизации).
func (c *Client) SetSigner(s Signer) { c.signer = s }

// httpStatusError — не-2xx ответ; body уже прочитан.
type httpStatusError struct {
	status int
	body   []byte
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.status, truncate(e.body, 256))
}

// do выполняет запрос и возвращает тело только для 2xx.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	c.m.RESTRequestDur.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &httpStatusError{status: resp.StatusCode, body: body}
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// authorize подписывает приватный запрос.
func (c *Client) authorize(req *http.Request, query string) error {
	if c.signer == nil {
		return fmt.Errorf("upbit credentials are not configured")
	}
	token, err := c.signer.Sign(query)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	return nil
}

// gatewayError переводит ошибку транспорта/статуса в *models.GatewayError.
func gatewayError(op string, err error) *models.GatewayError {
	ge := &models.GatewayError{Op: op, Err: err}
	if se, ok := err.(*httpStatusError); ok {
		ge.Status = se.status
		ge.Message = string(truncate(se.body, 256))
		var e errorDTO
		if sonic.Unmarshal(se.body, &e) == nil && e.Error.Message != "" {
			ge.Name = fmt.Sprint(e.Error.Name)
			ge.Message = e.Error.Message
		}
	}
	return ge
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
