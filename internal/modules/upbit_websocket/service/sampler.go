package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"upbit_bot/internal/metrics"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
	"upbit_bot/internal/notify"
)

// MarketLister — список рынков для подписки (REST /market/all).
type MarketLister interface {
	MarketsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Sampler подписывается на тикеры всех рынков с префиксом, копит последний
// acc_trade_volume по коду в течение окна и отдаёт топ по объёму.
type Sampler struct {
	wsURL       string
	dialer      *websocket.Dialer
	markets     MarketLister
	n           notify.Notifier
	window      time.Duration
	readTimeout time.Duration
	topN        int
	prefix      string
	m           *metrics.Metrics
	log         *zap.Logger
}

func NewSampler(cfg *config.Config, markets MarketLister, n notify.Notifier, m *metrics.Metrics, log *zap.Logger) *Sampler {
	return &Sampler{
		wsURL:       cfg.Upbit.WSURL,
		dialer:      &websocket.Dialer{HandshakeTimeout: cfg.Sampler.DialTimeout},
		markets:     markets,
		n:           n,
		window:      cfg.Sampler.Window,
		readTimeout: cfg.Sampler.ReadTimeout,
		topN:        cfg.Sampler.TopN,
		prefix:      cfg.Sampler.QuotePrefix,
		m:           m,
		log:         log.Named("sampler"),
	}
}

type tickerFrame struct {
	Type           string  `json:"type"`
	Code           string  `json:"code"`
	TradePrice     float64 `json:"trade_price"`
	AccTradeVolume float64 `json:"acc_trade_volume"`
	Error          *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Run — один замер и отправка рейтинга. Недоставленное сообщение не ошибка.
func (s *Sampler) Run(ctx context.Context) ([]models.MarketVolume, error) {
	top, err := s.Sample(ctx)
	if err != nil {
		return nil, err
	}
	if s.n != nil && !s.n.SendMessage(ctx, FormatTop(top, s.window)) {
		s.log.Warn("[SAMPLER] ranking not delivered")
	}
	return top, nil
}

// Sample — замер без отправки.
func (s *Sampler) Sample(ctx context.Context) ([]models.MarketVolume, error) {
	const op = "Sample"

	codes, err := s.markets.MarketsWithPrefix(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, &models.DataFetchError{Op: op, Market: s.prefix + "*", Err: errors.New("no markets to subscribe")}
	}

	conn, _, err := s.dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return nil, &models.DataFetchError{Op: op, Market: s.prefix + "*", Err: fmt.Errorf("ws dial: %w", err)}
	}
	defer conn.Close()

	// отмена контекста рвёт блокирующий ReadMessage
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	sub, err := sonic.Marshal([]any{
		map[string]string{"ticket": uuid.NewString()},
		map[string]any{"type": "ticker", "codes": codes},
	})
	if err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		return nil, &models.DataFetchError{Op: op, Market: s.prefix + "*", Err: fmt.Errorf("ws subscribe: %w", err)}
	}
	s.log.Info("[WS] subscribed", zap.Int("markets", len(codes)), zap.Duration("window", s.window))

	volumes := make(map[string]float64, len(codes))
	start := time.Now()
	end := start.Add(s.window)

	for time.Since(start) <= s.window {
		deadline := time.Now().Add(s.readTimeout)
		windowBound := s.readTimeout <= 0 || end.Before(deadline)
		if windowBound {
			deadline = end
		}
		_ = conn.SetReadDeadline(deadline)

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() && windowBound {
				break // окно закончилось в тишине
			}
			return nil, &models.DataFetchError{Op: op, Market: s.prefix + "*", Err: fmt.Errorf("ws read: %w", err)}
		}

		var f tickerFrame
		if err := sonic.Unmarshal(msg, &f); err != nil {
			s.log.Debug("[WS] skip frame", zap.Error(err))
			continue
		}
		if f.Error != nil {
			return nil, &models.DataFetchError{Op: op, Market: s.prefix + "*", Err: fmt.Errorf("ws error %s: %s", f.Error.Name, f.Error.Message)}
		}
		if f.Code == "" {
			continue
		}
		s.m.SamplerMessages.Inc()
		volumes[f.Code] = f.AccTradeVolume
	}

	s.m.SamplerMarkets.Set(float64(len(volumes)))
	s.log.Info("[WS] window closed", zap.Int("markets_seen", len(volumes)), zap.Duration("took", time.Since(start)))
	return RankTop(volumes, s.topN), nil
}

// RankTop — топ n по объёму по убыванию; при равенстве по коду.
func RankTop(volumes map[string]float64, n int) []models.MarketVolume {
	out := make([]models.MarketVolume, 0, len(volumes))
	for code, v := range volumes {
		out = append(out, models.MarketVolume{Market: code, Volume: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].Market < out[j].Market
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FormatTop — текст для Telegram (Markdown).
func FormatTop(top []models.MarketVolume, window time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Top %d by trade volume (%s window):\n", len(top), window)
	for i, mv := range top {
		fmt.Fprintf(&b, "%d. %s: %.2f\n", i+1, mv.Market, mv.Volume)
	}
	return b.String()
}
