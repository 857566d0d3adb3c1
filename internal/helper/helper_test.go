package helper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upbit_bot/internal/models"
)

func TestNormInterval(t *testing.T) {
	cases := map[string]models.Interval{
		"15m":        models.IntervalMinute15,
		" Minute15 ": models.IntervalMinute15,
		"candle1m":   models.IntervalMinute1,
		"1h":         models.IntervalMinute60,
		"1d":         models.IntervalDay,
		"day":        models.IntervalDay,
		"1w":         models.IntervalWeek,
	}
	for in, want := range cases {
		got, err := NormInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormInterval("7m")
	require.Error(t, err)
}

func TestKRWTickSize(t *testing.T) {
	cases := []struct {
		px   string
		tick string
	}{
		{"95000000", "1000"},
		{"1500000", "500"},
		{"650000", "100"},
		{"250000", "50"},
		{"55000", "10"},
		{"5000", "1"},
		{"500", "0.1"},
		{"98", "0.01"},
		{"3.5", "0.001"},
		{"0.5", "0.0001"},
	}
	for _, c := range cases {
		got := KRWTickSize(decimal.RequireFromString(c.px))
		assert.True(t, got.Equal(decimal.RequireFromString(c.tick)), "px=%s got=%s", c.px, got)
	}
}

func TestRoundToTick(t *testing.T) {
	px := decimal.RequireFromString("95001234.5")
	tick := decimal.NewFromInt(1000)
	assert.Equal(t, "95001000", RoundDownToTick(px, tick).String())
	assert.Equal(t, "95002000", RoundUpToTick(px, tick).String())

	exact := decimal.NewFromInt(95000000)
	assert.True(t, RoundDownToTick(exact, tick).Equal(exact))
	assert.True(t, RoundUpToTick(exact, tick).Equal(exact))

	assert.True(t, RoundDownToTick(px, decimal.Zero).Equal(px))
}

func TestCurrencies(t *testing.T) {
	assert.Equal(t, "KRW", QuoteCurrency("KRW-BTC"))
	assert.Equal(t, "BTC", BaseCurrency("KRW-BTC"))
	assert.Equal(t, "BTC", QuoteCurrency("BTC"))
	assert.Equal(t, "BTC", BaseCurrency("BTC"))
}
