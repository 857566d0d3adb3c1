package models

import "fmt"

type StrategyKind string

const (
	StrategySimple         StrategyKind = "simple"
	StrategyMovingAverage  StrategyKind = "moving_average"
	StrategyRSI            StrategyKind = "rsi"
	StrategyBollinger      StrategyKind = "bollinger"
	StrategyTrendFollowing StrategyKind = "trend_following"
	StrategyMartingale     StrategyKind = "martingale"
	StrategyGrid           StrategyKind = "grid"
	StrategyMACD           StrategyKind = "macd"
)

// StrategyKinds — закрытый список поддерживаемых стратегий.
var StrategyKinds = []StrategyKind{
	StrategySimple,
	StrategyMovingAverage,
	StrategyRSI,
	StrategyBollinger,
	StrategyTrendFollowing,
	StrategyMartingale,
	StrategyGrid,
	StrategyMACD,
}

// StrategySpec — закрытый вариант: реализуют только типы этого пакета.
// Каждый вариант несёт свои параметры.
type StrategySpec interface {
	Kind() StrategyKind
	sealed()
}

type SimpleSpec struct {
	BuyDiscount float64 // 0.05 => покупка по price*0.95
	SellPremium float64 // 0.05 => продажа по price*1.05
	CashFloor   float64 // минимум KRW для покупки
	QuoteCcy    string  // "KRW"
	Volume      float64
}

type MovingAverageSpec struct {
	Interval    Interval
	ShortWindow int
	LongWindow  int
	Volume      float64
}

type RSISpec struct {
	Interval   Interval
	Count      int
	Period     int
	Oversold   float64
	Overbought float64
	Volume     float64
}

type BollingerSpec struct {
	Interval Interval
	Window   int
	K        float64
	Volume   float64
}

type TrendFollowingSpec struct {
	Interval Interval
	Count    int
	Window   int
	Volume   float64
}

type MACDSpec struct {
	Interval Interval
	Count    int
	Fast     int
	Slow     int
	Signal   int
	Volume   float64
}

type GridSpec struct {
	Spacing float64 // 0.02 => 2% между ступенями
	Levels  int
	Volume  float64
}

type MartingaleMode string

const (
	// MartingalePerCall — все попытки внутри одного вызова, счётчик не сохраняется.
	MartingalePerCall MartingaleMode = "per_call"
	// MartingalePerCycle — одна покупка за вызов, счётчик живёт в AttemptStore.
	MartingalePerCycle MartingaleMode = "per_cycle"
)

type MartingaleSpec struct {
	BaseVolume  float64
	MaxAttempts int
	Mode        MartingaleMode
}

func (SimpleSpec) Kind() StrategyKind         { return StrategySimple }
func (MovingAverageSpec) Kind() StrategyKind  { return StrategyMovingAverage }
func (RSISpec) Kind() StrategyKind            { return StrategyRSI }
func (BollingerSpec) Kind() StrategyKind      { return StrategyBollinger }
func (TrendFollowingSpec) Kind() StrategyKind { return StrategyTrendFollowing }
func (MACDSpec) Kind() StrategyKind           { return StrategyMACD }
func (GridSpec) Kind() StrategyKind           { return StrategyGrid }
func (MartingaleSpec) Kind() StrategyKind     { return StrategyMartingale }

func (SimpleSpec) sealed()         {}
func (MovingAverageSpec) sealed()  {}
func (RSISpec) sealed()            {}
func (BollingerSpec) sealed()      {}
func (TrendFollowingSpec) sealed() {}
func (MACDSpec) sealed()           {}
func (GridSpec) sealed()           {}
func (MartingaleSpec) sealed()     {}

// DefaultSpec — параметры по умолчанию, как в исходных скриптах.
func DefaultSpec(kind StrategyKind) (StrategySpec, error) {
	const vol = 0.001
	switch kind {
	case StrategySimple:
		return SimpleSpec{BuyDiscount: 0.05, SellPremium: 0.05, CashFloor: 5000, QuoteCcy: "KRW", Volume: vol}, nil
	case StrategyMovingAverage:
		return MovingAverageSpec{Interval: IntervalMinute15, ShortWindow: 10, LongWindow: 50, Volume: vol}, nil
	case StrategyRSI:
		return RSISpec{Interval: IntervalMinute15, Count: 15, Period: 14, Oversold: 30, Overbought: 70, Volume: vol}, nil
	case StrategyBollinger:
		return BollingerSpec{Interval: IntervalMinute15, Window: 20, K: 2, Volume: vol}, nil
	case StrategyTrendFollowing:
		return TrendFollowingSpec{Interval: IntervalDay, Count: 50, Window: 20, Volume: vol}, nil
	case StrategyMACD:
		return MACDSpec{Interval: IntervalMinute15, Count: 50, Fast: 12, Slow: 26, Signal: 9, Volume: vol}, nil
	case StrategyGrid:
		return GridSpec{Spacing: 0.02, Levels: 5, Volume: vol}, nil
	case StrategyMartingale:
		return MartingaleSpec{BaseVolume: vol, MaxAttempts: 5, Mode: MartingalePerCall}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, string(kind))
}
