package service

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/notify"
)

type fakeLister struct {
	markets []string
	prefix  string
}

func (f *fakeLister) MarketsWithPrefix(_ context.Context, prefix string) ([]string, error) {
	f.prefix = prefix
	return f.markets, nil
}

// wsServer проверяет кадр подписки и шлёт frames. subscribed получает codes.
func wsServer(t *testing.T, frames []string, subscribed chan<- []string) string {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub []map[string]any
		if err := json.Unmarshal(raw, &sub); err != nil || len(sub) != 2 {
			t.Errorf("bad subscribe frame: %s", raw)
			return
		}
		if ticket, _ := sub[0]["ticket"].(string); ticket == "" {
			t.Errorf("subscribe frame without ticket: %s", raw)
		}
		var codes []string
		for _, c := range sub[1]["codes"].([]any) {
			codes = append(codes, c.(string))
		}
		subscribed <- codes

		for _, f := range frames {
			// Upbit шлёт тикеры бинарными кадрами
			if err := conn.WriteMessage(websocket.BinaryMessage, []byte(f)); err != nil {
				return
			}
		}
		// держим соединение, пока клиент не уйдёт
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newSamplerConfig(url string, window time.Duration, topN int) *config.Config {
	var cfg config.Config
	cfg.Upbit.WSURL = url
	cfg.Sampler.Window = window
	cfg.Sampler.ReadTimeout = 5 * time.Second
	cfg.Sampler.DialTimeout = 2 * time.Second
	cfg.Sampler.TopN = topN
	cfg.Sampler.QuotePrefix = "KRW-"
	return &cfg
}

func TestSamplerRanksLatestVolumes(t *testing.T) {
	frames := []string{
		`{"type":"ticker","code":"KRW-BTC","trade_price":50000000,"acc_trade_volume":10}`,
		`{"type":"ticker","code":"KRW-ETH","trade_price":3000000,"acc_trade_volume":50}`,
		`{"type":"ticker","code":"KRW-XRP","trade_price":700,"acc_trade_volume":900}`,
		`not json`,
		`{"type":"ticker","code":"KRW-BTC","trade_price":50000000,"acc_trade_volume":70}`,
		`{"type":"ticker","code":"KRW-DOGE","trade_price":100,"acc_trade_volume":50}`,
	}
	subscribed := make(chan []string, 1)
	url := wsServer(t, frames, subscribed)

	lister := &fakeLister{markets: []string{"KRW-BTC", "KRW-ETH", "KRW-XRP", "KRW-DOGE"}}
	rec := &notify.Recorder{}
	s := NewSampler(newSamplerConfig(url, 300*time.Millisecond, 3), lister, rec, metrics.NewNop(), zap.NewNop())

	start := time.Now()
	top, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)

	assert.Equal(t, "KRW-", lister.prefix)
	assert.Equal(t, lister.markets, <-subscribed)
	assert.Equal(t, []models.MarketVolume{
		{Market: "KRW-XRP", Volume: 900},
		{Market: "KRW-BTC", Volume: 70},
		{Market: "KRW-DOGE", Volume: 50},
	}, top)

	require.Len(t, rec.Messages, 1)
	assert.Contains(t, rec.Messages[0], "1. KRW-XRP: 900.00")
	assert.Contains(t, rec.Messages[0], "3. KRW-DOGE: 50.00")
}

func TestSamplerErrorFrame(t *testing.T) {
	subscribed := make(chan []string, 1)
	url := wsServer(t, []string{`{"error":{"name":"INVALID_AUTH","message":"bad"}}`}, subscribed)

	s := NewSampler(newSamplerConfig(url, 2*time.Second, 10), &fakeLister{markets: []string{"KRW-BTC"}}, nil, metrics.NewNop(), zap.NewNop())
	_, err := s.Sample(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)
}

func TestSamplerNoMarkets(t *testing.T) {
	s := NewSampler(newSamplerConfig("ws://127.0.0.1:1", time.Second, 10), &fakeLister{}, nil, metrics.NewNop(), zap.NewNop())
	_, err := s.Sample(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)
}

func TestSamplerContextCancel(t *testing.T) {
	subscribed := make(chan []string, 1)
	url := wsServer(t, nil, subscribed)

	s := NewSampler(newSamplerConfig(url, time.Minute, 10), &fakeLister{markets: []string{"KRW-BTC"}}, nil, metrics.NewNop(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-subscribed
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := s.Sample(ctx)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("sampler ignored context cancellation")
	}
}

func TestSamplerReadTimeoutOnSilentPeer(t *testing.T) {
	subscribed := make(chan []string, 1)
	url := wsServer(t, nil, subscribed)

	cfg := newSamplerConfig(url, 5*time.Second, 10)
	cfg.Sampler.ReadTimeout = 200 * time.Millisecond
	s := NewSampler(cfg, &fakeLister{markets: []string{"KRW-BTC"}}, nil, metrics.NewNop(), zap.NewNop())

	start := time.Now()
	_, err := s.Sample(context.Background())
	took := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataFetch)
	assert.GreaterOrEqual(t, took, 200*time.Millisecond)
	assert.Less(t, took, 3*time.Second)
}

func TestSamplerDialTimeout(t *testing.T) {
	// принимает TCP, но не отвечает на upgrade
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		var held []net.Conn
		defer func() {
			for _, c := range held {
				_ = c.Close()
			}
		}()
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, c)
		}
	}()

	cfg := newSamplerConfig("ws://"+ln.Addr().String(), 5*time.Second, 10)
	cfg.Sampler.DialTimeout = 200 * time.Millisecond
	s := NewSampler(cfg, &fakeLister{markets: []string{"KRW-BTC"}}, nil, metrics.NewNop(), zap.NewNop())

	start := time.Now()
	_, err = s.Sample(context.Background())
	assert.ErrorIs(t, err, models.ErrDataFetch)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRankTopTiesByCode(t *testing.T) {
	top := RankTop(map[string]float64{"KRW-B": 5, "KRW-A": 5, "KRW-C": 9, "KRW-D": 1}, 3)
	assert.Equal(t, []models.MarketVolume{
		{Market: "KRW-C", Volume: 9},
		{Market: "KRW-A", Volume: 5},
		{Market: "KRW-B", Volume: 5},
	}, top)

	assert.Len(t, RankTop(map[string]float64{"KRW-A": 1}, 10), 1)
}
