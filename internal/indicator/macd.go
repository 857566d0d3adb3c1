package indicator

import (
	"fmt"

	"upbit_bot/internal/models"
)

const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDResult — линии по всей серии, выровнены по входу.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// LastValues — macd и signal на последней свече.
func (r MACDResult) LastValues() (macd, signal float64) {
	n := len(r.MACD)
	if n == 0 {
		return 0, 0
	}
	return r.MACD[n-1], r.Signal[n-1]
}

// MACD = EMA(fast) - EMA(slow), signal = EMA(macd, signal).
// Серия короче slow считается недостаточной.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return MACDResult{}, errInvalidMACD(fast, slow, signal)
	}
	if len(closes) < slow {
		return MACDResult{}, models.InsufficientData("MACD", slow, len(closes))
	}
	fastLine, err := EMA(closes, fast)
	if err != nil {
		return MACDResult{}, err
	}
	slowLine, err := EMA(closes, slow)
	if err != nil {
		return MACDResult{}, err
	}
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fastLine[i] - slowLine[i]
	}
	sig, err := EMA(macd, signal)
	if err != nil {
		return MACDResult{}, err
	}
	hist := make([]float64, len(closes))
	for i := range macd {
		hist[i] = macd[i] - sig[i]
	}
	return MACDResult{MACD: macd, Signal: sig, Histogram: hist}, nil
}

// MACDDefault — классические 12/26/9.
func MACDDefault(closes []float64) (MACDResult, error) {
	return MACD(closes, MACDFast, MACDSlow, MACDSignal)
}

func errInvalidMACD(fast, slow, signal int) error {
	return fmt.Errorf("MACD: invalid periods fast=%d slow=%d signal=%d", fast, slow, signal)
}
