package indicator

const RSIPeriod = 14

// RSI — простое среднее приростов к среднему падений за последние period
// дельт (rolling mean, не Уайлдер). Нужно минимум period+1 цен.
//
// Нулевое среднее падение: при росте RSI = 100, на плоской серии RSI = 50.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, checkWindow("RSI", closes, period)
	}
	if err := checkWindow("RSI", closes, period+1); err != nil {
		return 0, err
	}
	tail := closes[len(closes)-period-1:]
	gain, loss := 0.0, 0.0
	for i := 1; i < len(tail); i++ {
		d := tail[i] - tail[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, nil
		}
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
