package indicator

import "fmt"

const (
	BollingerWindow = 20
	BollingerK      = 2.0
)

type Bands struct {
	Mid    float64
	Upper  float64
	Lower  float64
	StdDev float64
}

// Width — upper - lower, всегда 2*k*std.
func (b Bands) Width() float64 { return b.Upper - b.Lower }

// Bollinger — mid = SMA(window), полосы mid ± k*std (выборочное отклонение).
func Bollinger(closes []float64, window int, k float64) (Bands, error) {
	if k < 0 {
		return Bands{}, fmt.Errorf("Bollinger: k must be >= 0, got %v", k)
	}
	mid, err := SMA(closes, window)
	if err != nil {
		return Bands{}, err
	}
	std, err := StdDev(closes, window)
	if err != nil {
		return Bands{}, err
	}
	return Bands{
		Mid:    mid,
		Upper:  mid + k*std,
		Lower:  mid - k*std,
		StdDev: std,
	}, nil
}
