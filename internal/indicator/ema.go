package indicator

// EMA — экспоненциальная средняя, alpha = 2/(span+1), старт с первого значения,
// без bias-коррекции (ewm(adjust=False)). Длина результата равна длине входа.
func EMA(closes []float64, span int) ([]float64, error) {
	if err := checkWindow("EMA", closes, 1); err != nil {
		return nil, err
	}
	if span <= 0 {
		return nil, checkWindow("EMA", closes, span)
	}
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(closes))
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		// форма prev + a*(x-prev): на постоянной серии значение не дрейфует
		out[i] = out[i-1] + alpha*(closes[i]-out[i-1])
	}
	return out, nil
}
