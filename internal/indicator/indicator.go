// Package indicator — чистые функции над колонкой цен закрытия.
//
// Все функции детерминированы и не меняют вход. Короткая серия всегда
// даёт models.ErrInsufficientData, NaN наружу не возвращается.
package indicator

import (
	"fmt"
	"math"

	"upbit_bot/internal/models"
)

func checkWindow(name string, closes []float64, window int) error {
	if window <= 0 {
		return fmt.Errorf("%s: window must be > 0, got %d", name, window)
	}
	if len(closes) < window {
		return models.InsufficientData(name, window, len(closes))
	}
	return nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// sampleStd — выборочное отклонение (n-1), как rolling().std() в pandas.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, v := range xs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
