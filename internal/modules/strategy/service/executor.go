package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"upbit_bot/internal/models"
	"upbit_bot/internal/notify"
)

// Executor превращает Buy/Sell в лимитные ордера. Ордера не повторяются;
// первая ошибка прерывает оставшиеся сигналы решения.
type Executor struct {
	gw           OrderGateway
	journal      OrderJournal    // может быть nil
	n            notify.Notifier // может быть nil
	notifyOrders bool
	log          *zap.Logger
}

func NewExecutor(gw OrderGateway, journal OrderJournal, n notify.Notifier, notifyOrders bool, log *zap.Logger) *Executor {
	return &Executor{
		gw:           gw,
		journal:      journal,
		n:            n,
		notifyOrders: notifyOrders,
		log:          log.Named("executor"),
	}
}

func (x *Executor) Execute(ctx context.Context, dec models.Decision) ([]models.OrderResult, error) {
	signals := dec.Actionable()
	if len(signals) == 0 {
		return nil, nil
	}

	placed := make([]models.OrderResult, 0, len(signals))
	for _, sig := range signals {
		side, _ := sig.Side()
		res, err := x.gw.PlaceLimitOrder(ctx, sig.Market, side, sig.Price, sig.Volume)
		if err != nil {
			x.log.Error("[EXEC] order failed",
				zap.String("signal", sig.String()),
				zap.Error(err),
			)
			x.notify(ctx, fmt.Sprintf("❌ %s %s %s failed: %v", sig.Strategy, sig.Market, sig.Kind, err))
			return placed, err
		}
		placed = append(placed, res)

		if x.journal != nil {
			if err := x.journal.RecordOrder(ctx, sig, res); err != nil {
				x.log.Warn("[EXEC] journal write failed", zap.String("uuid", res.UUID), zap.Error(err))
			}
		}
	}

	x.notify(ctx, formatPlaced(dec, placed))
	return placed, nil
}

func (x *Executor) notify(ctx context.Context, text string) {
	if !x.notifyOrders || x.n == nil {
		return
	}
	if !x.n.SendMessage(ctx, text) {
		x.log.Warn("[EXEC] notification not delivered")
	}
}

func formatPlaced(dec models.Decision, placed []models.OrderResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s %s: %d order(s)\n", dec.Strategy, dec.Market, len(placed))
	for _, r := range placed {
		fmt.Fprintf(&b, "• %s %s @ %s (%s)\n", r.Side, r.Volume, r.Price, r.UUID)
	}
	return strings.TrimRight(b.String(), "\n")
}
