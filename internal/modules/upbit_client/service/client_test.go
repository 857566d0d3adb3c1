package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.Upbit.RESTURL = srv.URL
	cfg.Upbit.AccessKey = "access"
	cfg.Upbit.SecretKey = "secret"
	cfg.Upbit.HTTPTimeout = 2 * time.Second
	cfg.Upbit.RoundToTick = true
	cfg.Upbit.Retry.MaxAttempts = 3
	cfg.Upbit.Retry.Backoff = time.Millisecond
	return NewClient(&cfg, zap.NewNop(), metrics.NewNop())
}

func TestGetCurrentPrice(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ticker", r.URL.Path)
		assert.Equal(t, "KRW-BTC", r.URL.Query().Get("markets"))
		_, _ = io.WriteString(w, `[{"market":"KRW-BTC","trade_price":51234000.0}]`)
	}))

	price, err := c.GetCurrentPrice(context.Background(), "KRW-BTC")
	require.NoError(t, err)
	assert.Equal(t, 51234000.0, price)
}

func TestGetCurrentPriceMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"empty list": `[]`,
		"not json":   `<html>`,
		"zero price": `[{"trade_price":0}]`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			_, err := c.GetCurrentPrice(context.Background(), "KRW-BTC")
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrGateway)
		})
	}
}

func TestReadsRetryOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"trade_price":100}]`)
	}))

	price, err := c.GetCurrentPrice(context.Background(), "KRW-XRP")
	require.NoError(t, err)
	assert.Equal(t, 100.0, price)
	assert.EqualValues(t, 3, calls.Load())
}

func TestReadsDoNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"name":"404","message":"Code not found"}}`)
	}))

	_, err := c.GetCurrentPrice(context.Background(), "KRW-NOPE")
	var ge *models.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusNotFound, ge.Status)
	assert.Equal(t, "404", ge.Name)
	assert.Equal(t, "Code not found", ge.Message)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetCandlesOldestFirst(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candles/minutes/15", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		_, _ = io.WriteString(w, `[
			{"candle_date_time_utc":"2024-01-01T00:30:00","opening_price":3,"high_price":3,"low_price":3,"trade_price":30,"candle_acc_trade_volume":1},
			{"candle_date_time_utc":"2024-01-01T00:15:00","opening_price":2,"high_price":2,"low_price":2,"trade_price":20,"candle_acc_trade_volume":1},
			{"candle_date_time_utc":"2024-01-01T00:00:00","opening_price":1,"high_price":1,"low_price":1,"trade_price":10,"candle_acc_trade_volume":1}
		]`)
	}))

	series, err := c.GetCandles(context.Background(), "KRW-BTC", models.IntervalMinute15, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, series.Closes())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Candles[0].Timestamp)
	assert.Equal(t, models.IntervalMinute15, series.Interval)
}

func TestGetCandlesDataFetchError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.GetCandles(context.Background(), "KRW-BTC", models.IntervalDay, 50)
	assert.ErrorIs(t, err, models.ErrDataFetch)

	_, err = c.GetCandles(context.Background(), "KRW-BTC", models.IntervalDay, 0)
	assert.ErrorIs(t, err, models.ErrDataFetch)
}

func TestGetBalance(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		_, _ = io.WriteString(w, `[
			{"currency":"KRW","balance":"150000.5","locked":"0","avg_buy_price":"0","unit_currency":"KRW"},
			{"currency":"BTC","balance":"0.0021","locked":"0","avg_buy_price":"50000000","unit_currency":"KRW"}
		]`)
	}))

	krw, err := c.GetBalance(context.Background(), "KRW")
	require.NoError(t, err)
	assert.Equal(t, 150000.5, krw)

	eth, err := c.GetBalance(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Zero(t, eth)
}

func TestGetBalanceWithoutCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent unsigned")
	}))
	c.SetSigner(nil)

	_, err := c.GetBalance(context.Background(), "KRW")
	assert.ErrorIs(t, err, models.ErrGateway)
}

func TestKRWMarkets(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market/all", r.URL.Path)
		_, _ = io.WriteString(w, `[{"market":"KRW-BTC"},{"market":"BTC-ETH"},{"market":"KRW-XRP"}]`)
	}))

	markets, err := c.KRWMarkets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"KRW-BTC", "KRW-XRP"}, markets)
}

func TestPlaceLimitOrder(t *testing.T) {
	var got orderRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
		require.NoError(t, err)
		sum := sha512.Sum512([]byte(got.query()))
		assert.Equal(t, hex.EncodeToString(sum[:]), claims["query_hash"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"uuid":"u-1","side":"bid","ord_type":"limit","price":"50123000","state":"wait","market":"KRW-BTC","created_at":"2024-01-01T09:00:00+09:00","volume":"0.001"}`)
	}))

	res, err := c.PlaceLimitOrder(context.Background(), "KRW-BTC", models.OrderSideBid, 50_123_456.7, 0.001)
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.UUID)
	assert.Equal(t, "wait", res.State)
	assert.False(t, res.CreatedAt.IsZero())

	assert.Equal(t, "KRW-BTC", got.Market)
	assert.Equal(t, "bid", got.Side)
	assert.Equal(t, "50123000", got.Price)
	assert.Equal(t, "0.001", got.Volume)
	assert.Equal(t, "limit", got.OrdType)
}

func TestPlaceLimitOrderAskRoundsUp(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	o, err := c.buildOrder("KRW-XRP", models.OrderSideAsk, 712.34, 10)
	require.NoError(t, err)
	assert.Equal(t, "712.4", o.Price)

	o, err = c.buildOrder("BTC-ETH", models.OrderSideAsk, 0.0512345, 1)
	require.NoError(t, err)
	assert.Equal(t, "0.0512345", o.Price)
}

func TestPlaceLimitOrderIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"name":"server_error","message":"try later"}}`)
	}))

	_, err := c.PlaceLimitOrder(context.Background(), "KRW-BTC", models.OrderSideAsk, 50_000_000, 0.001)
	var ge *models.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, http.StatusServiceUnavailable, ge.Status)
	assert.Equal(t, "server_error", ge.Name)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPlaceLimitOrderRejectsBadInput(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid order must not reach the exchange")
	}))

	_, err := c.PlaceLimitOrder(context.Background(), "KRW-BTC", models.OrderSideBid, 0, 0.001)
	assert.ErrorIs(t, err, models.ErrGateway)
	_, err = c.PlaceLimitOrder(context.Background(), "KRW-BTC", "hold", 100, 1)
	assert.ErrorIs(t, err, models.ErrGateway)
}

func TestSignerClaims(t *testing.T) {
	s := NewJWTSigner("access", "secret")
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }

	parse := func(bearer string) jwt.MapClaims {
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(bearer, "Bearer "), claims, func(tk *jwt.Token) (any, error) {
			assert.Equal(t, jwt.SigningMethodHS256, tk.Method)
			return []byte("secret"), nil
		})
		require.NoError(t, err)
		return claims
	}

	first, err := s.Sign("")
	require.NoError(t, err)
	c1 := parse(first)
	assert.Equal(t, "access", c1["access_key"])
	assert.NotContains(t, c1, "query_hash")

	second, err := s.Sign("market=KRW-BTC")
	require.NoError(t, err)
	c2 := parse(second)
	assert.Equal(t, "SHA512", c2["query_hash_alg"])
	assert.Greater(t, c2["nonce"].(string), c1["nonce"].(string))
}
