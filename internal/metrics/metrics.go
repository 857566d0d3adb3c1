package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — коллекторы бота. Регистрируются в переданном Registerer,
// чтобы тесты могли использовать свой prometheus.NewRegistry().
type Metrics struct {
	EvaluationsTotal *prometheus.CounterVec   // labels: strategy, outcome=signal|hold|error
	EvaluationDur    *prometheus.HistogramVec // labels: strategy
	SignalsTotal     *prometheus.CounterVec   // labels: strategy, kind
	OrdersTotal      *prometheus.CounterVec   // labels: side, result=ok|error
	RESTRequestDur   *prometheus.HistogramVec // labels: op
	RESTRetries      *prometheus.CounterVec   // labels: op
	LockBusyTotal    *prometheus.CounterVec   // labels: market
	SamplerMessages  prometheus.Counter
	SamplerMarkets   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upbit_bot_evaluations_total",
			Help: "Strategy evaluations by outcome",
		}, []string{"strategy", "outcome"}),
		EvaluationDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upbit_bot_evaluation_seconds",
			Help:    "Strategy evaluation latency including market data fetch",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upbit_bot_signals_total",
			Help: "Signals produced by strategies",
		}, []string{"strategy", "kind"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upbit_bot_orders_total",
			Help: "Limit orders submitted to the exchange",
		}, []string{"side", "result"}),
		RESTRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upbit_bot_rest_request_seconds",
			Help:    "Upbit REST request latency",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		RESTRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upbit_bot_rest_retries_total",
			Help: "Retried idempotent REST reads",
		}, []string{"op"}),
		LockBusyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upbit_bot_market_lock_busy_total",
			Help: "Evaluations skipped because another one was in flight for the market",
		}, []string{"market"}),
		SamplerMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "upbit_bot_sampler_messages_total",
			Help: "Ticker messages read by the volume sampler",
		}),
		SamplerMarkets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "upbit_bot_sampler_markets",
			Help: "Markets seen in the last sampling window",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.EvaluationsTotal,
			m.EvaluationDur,
			m.SignalsTotal,
			m.OrdersTotal,
			m.RESTRequestDur,
			m.RESTRetries,
			m.LockBusyTotal,
			m.SamplerMessages,
			m.SamplerMarkets,
		)
	}
	return m
}

// NewNop — коллекторы без регистрации.
func NewNop() *Metrics { return NewMetrics(nil) }
