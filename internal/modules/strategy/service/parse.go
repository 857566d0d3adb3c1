package service

import (
	"strings"

	"github.com/pkg/errors"

	"upbit_bot/internal/helper"
	"upbit_bot/internal/models"
	"upbit_bot/internal/modules/config"
)

// SpecFromParams — значения по умолчанию стратегии, перекрытые ненулевыми
// параметрами из конфига.
func SpecFromParams(name string, p config.StrategyParams) (models.StrategySpec, error) {
	kind := models.StrategyKind(strings.TrimSpace(name))
	spec, err := models.DefaultSpec(kind)
	if err != nil {
		return nil, err
	}

	interval := func(def models.Interval) (models.Interval, error) {
		if p.Interval == "" {
			return def, nil
		}
		return helper.NormInterval(p.Interval)
	}

	switch s := spec.(type) {
	case models.SimpleSpec:
		setF(&s.Volume, p.Volume)
		setF(&s.BuyDiscount, p.BuyDiscount)
		setF(&s.SellPremium, p.SellPremium)
		setF(&s.CashFloor, p.CashFloor)
		spec = s
	case models.MovingAverageSpec:
		if s.Interval, err = interval(s.Interval); err != nil {
			return nil, err
		}
		setF(&s.Volume, p.Volume)
		setI(&s.ShortWindow, p.ShortWindow)
		setI(&s.LongWindow, p.LongWindow)
		if s.ShortWindow >= s.LongWindow {
			return nil, errors.Errorf("%s: short_window %d must be below long_window %d", kind, s.ShortWindow, s.LongWindow)
		}
		spec = s
	case models.RSISpec:
		if s.Interval, err = interval(s.Interval); err != nil {
			return nil, err
		}
		setF(&s.Volume, p.Volume)
		setI(&s.Count, p.Count)
		setI(&s.Period, p.Period)
		setF(&s.Oversold, p.Oversold)
		setF(&s.Overbought, p.Overbought)
		if s.Count < s.Period+1 {
			s.Count = s.Period + 1
		}
		if s.Oversold >= s.Overbought {
			return nil, errors.Errorf("%s: oversold %v must be below overbought %v", kind, s.Oversold, s.Overbought)
		}
		spec = s
	case models.BollingerSpec:
		if s.Interval, err = interval(s.Interval); err != nil {
			return nil, err
		}
		setF(&s.Volume, p.Volume)
		setI(&s.Window, p.Window)
		setF(&s.K, p.K)
		spec = s
	case models.TrendFollowingSpec:
		if s.Interval, err = interval(s.Interval); err != nil {
			return nil, err
		}
		setF(&s.Volume, p.Volume)
		setI(&s.Count, p.Count)
		setI(&s.Window, p.Window)
		if s.Count < s.Window {
			s.Count = s.Window
		}
		spec = s
	case models.MACDSpec:
		if s.Interval, err = interval(s.Interval); err != nil {
			return nil, err
		}
		setF(&s.Volume, p.Volume)
		setI(&s.Count, p.Count)
		setI(&s.Fast, p.Fast)
		setI(&s.Slow, p.Slow)
		setI(&s.Signal, p.Signal)
		if s.Fast >= s.Slow {
			return nil, errors.Errorf("%s: fast %d must be below slow %d", kind, s.Fast, s.Slow)
		}
		if s.Count < s.Slow {
			s.Count = s.Slow
		}
		spec = s
	case models.GridSpec:
		setF(&s.Volume, p.Volume)
		setF(&s.Spacing, p.Spacing)
		setI(&s.Levels, p.Levels)
		spec = s
	case models.MartingaleSpec:
		setF(&s.BaseVolume, p.BaseVolume)
		setI(&s.MaxAttempts, p.MaxAttempts)
		switch mode := models.MartingaleMode(p.Mode); mode {
		case "":
		case models.MartingalePerCall, models.MartingalePerCycle:
			s.Mode = mode
		default:
			return nil, errors.Errorf("%s: unknown mode %q", kind, p.Mode)
		}
		spec = s
	}
	return spec, nil
}

func setF(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setI(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
