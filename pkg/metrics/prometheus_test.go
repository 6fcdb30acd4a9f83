package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_TicksAndGate(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordTick("BTC", true)
	r.RecordTick("BTC", false)
	r.RecordTick("BTC", false)
	r.RecordGateState("BTC", true)
	r.RecordLastPrice("BTC", 98123.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ticksTotal.WithLabelValues("BTC", "committed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticksTotal.WithLabelValues("BTC", "suppressed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gatePaused.WithLabelValues("BTC")))
	assert.Equal(t, 98123.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("BTC")))

	r.RecordGateState("BTC", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.gatePaused.WithLabelValues("BTC")))
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegisterer(prometheus.NewRegistry())
		NewWithRegisterer(prometheus.NewRegistry())
	})
}
