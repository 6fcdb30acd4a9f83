package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/middleware"
	pkgkafka "BTCPulse/pkg/kafka"
	"BTCPulse/pkg/logger"
)

type stubProcessor struct {
	got []models.Candle
	err error
}

func (p *stubProcessor) Process(_ context.Context, _ string, c models.Candle) error {
	p.got = append(p.got, c)
	return p.err
}

func TestKafkaCandlesHandler_DecodesSecondsAndMillis(t *testing.T) {
	proc := &stubProcessor{}
	h := NewKafkaCandlesHandler("btcpulse.candles", "BTC", proc, newFakeMetrics(), logger.NewNop())
	assert.Equal(t, "btcpulse.candles", h.Topic())

	require.NoError(t, h.Handle(context.Background(), []byte(`{"symbol":"BTC","time":1741953600,"open":1,"high":2,"low":0.5,"close":1.5}`)))
	require.NoError(t, h.Handle(context.Background(), []byte(`{"symbol":"btc","t":1741953660000,"open":1,"high":2,"low":0.5,"close":1.5}`)))

	require.Len(t, proc.got, 2)
	assert.EqualValues(t, 1741953600000, proc.got[0].Timestamp)
	assert.EqualValues(t, 1741953660000, proc.got[1].Timestamp)
}

func TestKafkaCandlesHandler_IgnoresOtherSymbols(t *testing.T) {
	proc := &stubProcessor{}
	h := NewKafkaCandlesHandler("t", "BTC", proc, newFakeMetrics(), logger.NewNop())
	require.NoError(t, h.Handle(context.Background(), []byte(`{"symbol":"ETH","time":1,"open":1,"high":1,"low":1,"close":1}`)))
	assert.Empty(t, proc.got)
}

func TestKafkaCandlesHandler_ErrorClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantNil   bool
		permanent bool
	}{
		{"suppressed", ErrSuppressed, true, false},
		{"out of order", ErrOutOfOrder, true, false},
		{"feed stopped", fmt.Errorf("guard downstream: %w", ErrStopped), true, false},
		{"stale", middleware.ErrStaleCandle, true, false},
		{"invalid", middleware.ErrInvalidCandle, false, true},
		{"other", errors.New("boom"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewKafkaCandlesHandler("t", "BTC", &stubProcessor{err: tc.err}, newFakeMetrics(), logger.NewNop())
			err := h.Handle(context.Background(), []byte(`{"time":1741953600,"open":1,"high":2,"low":0.5,"close":1.5}`))
			if tc.wantNil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.permanent, pkgkafka.IsPermanent(err))
		})
	}
}

func TestKafkaCandlesHandler_BadJSONIsPermanent(t *testing.T) {
	h := NewKafkaCandlesHandler("t", "BTC", &stubProcessor{}, newFakeMetrics(), logger.NewNop())
	err := h.Handle(context.Background(), []byte(`{`))
	assert.True(t, pkgkafka.IsPermanent(err))
}
