package models

import "fmt"

// SignalKind — Buy / Sell / Hold.
type SignalKind string

const (
	SignalHold SignalKind = "HOLD"
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

// Signal — решение стратегии. У Hold цена и объём нулевые.
type Signal struct {
	Kind     SignalKind
	Market   string
	Price    float64
	Volume   float64
	Strategy StrategyKind
	Reason   string
}

func Buy(market string, price, volume float64, reason string) Signal {
	return Signal{Kind: SignalBuy, Market: market, Price: price, Volume: volume, Reason: reason}
}

func Sell(market string, price, volume float64, reason string) Signal {
	return Signal{Kind: SignalSell, Market: market, Price: price, Volume: volume, Reason: reason}
}

func Hold(market, reason string) Signal {
	return Signal{Kind: SignalHold, Market: market, Reason: reason}
}

func (s Signal) IsHold() bool { return s.Kind == SignalHold || s.Kind == "" }

// Side переводит сигнал в сторону ордера Upbit. Для Hold ok=false.
func (s Signal) Side() (OrderSide, bool) {
	switch s.Kind {
	case SignalBuy:
		return OrderSideBid, true
	case SignalSell:
		return OrderSideAsk, true
	}
	return "", false
}

func (s Signal) String() string {
	if s.IsHold() {
		return fmt.Sprintf("%s %s HOLD (%s)", s.Strategy, s.Market, s.Reason)
	}
	return fmt.Sprintf("%s %s %s price=%.8g vol=%.8g (%s)",
		s.Strategy, s.Market, s.Kind, s.Price, s.Volume, s.Reason)
}

// Decision — все сигналы одной оценки стратегии, в порядке исполнения.
// Большинство стратегий дают ровно один сигнал, grid и martingale — несколько.
type Decision struct {
	Strategy StrategyKind
	Market   string
	Signals  []Signal
}

// Actionable — только Buy/Sell.
func (d Decision) Actionable() []Signal {
	out := make([]Signal, 0, len(d.Signals))
	for _, s := range d.Signals {
		if !s.IsHold() {
			out = append(out, s)
		}
	}
	return out
}

func (d Decision) IsHold() bool { return len(d.Actionable()) == 0 }
