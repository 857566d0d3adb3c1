package indicator

// SMA — среднее последних window значений.
func SMA(closes []float64, window int) (float64, error) {
	if err := checkWindow("SMA", closes, window); err != nil {
		return 0, err
	}
	return mean(closes[len(closes)-window:]), nil
}

// SMASeries — скользящая средняя по всей серии. Первое значение соответствует
// closes[window-1], длина результата len(closes)-window+1.
func SMASeries(closes []float64, window int) ([]float64, error) {
	if err := checkWindow("SMA", closes, window); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(closes)-window+1)
	sum := 0.0
	for i, v := range closes {
		sum += v
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}

// StdDev — выборочное стандартное отклонение последних window значений.
func StdDev(closes []float64, window int) (float64, error) {
	if err := checkWindow("StdDev", closes, window); err != nil {
		return 0, err
	}
	return sampleStd(closes[len(closes)-window:]), nil
}
