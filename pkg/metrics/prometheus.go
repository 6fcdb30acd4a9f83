package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticksTotal   *prometheus.CounterVec
	gatePaused   *prometheus.GaugeVec
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		ticksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_refresh_ticks_total",
				Help: "Price refresh ticks by outcome (committed or suppressed)",
			},
			[]string{"symbol", "outcome"},
		),
		gatePaused: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "btcpulse_refresh_gate_paused",
				Help: "1 while the price refresh gate is paused by user interaction",
			},
			[]string{"symbol"},
		),
		messagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_messages_sent_total",
				Help: "Total number of messages sent to a backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "btcpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "btcpulse_last_close",
				Help: "Close of the newest committed candle",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "btcpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTick counts a refresh tick. Ticks discarded by a paused gate are "suppressed".
func (r *Recorder) RecordTick(symbol string, committed bool) {
	outcome := "committed"
	if !committed {
		outcome = "suppressed"
	}
	r.ticksTotal.WithLabelValues(symbol, outcome).Inc()
}

func (r *Recorder) RecordGateState(symbol string, paused bool) {
	v := 0.0
	if paused {
		v = 1
	}
	r.gatePaused.WithLabelValues(symbol).Set(v)
}

// RecordMessageSent records a message sent to a backend.
func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.messagesSent.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
