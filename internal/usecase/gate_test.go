package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshGate_Transitions(t *testing.T) {
	g := NewRefreshGate()
	var changes []GateState
	g.OnChange(func(s GateState) { changes = append(changes, s) })

	assert.Equal(t, GateLive, g.State())
	assert.True(t, g.AnimationsEnabled())

	assert.Equal(t, GatePaused, g.Apply(SignalZoom))
	assert.Equal(t, GatePaused, g.Apply(SignalPan))
	assert.Equal(t, GatePaused, g.Apply(SignalScroll))
	assert.False(t, g.AnimationsEnabled())

	assert.Equal(t, GateLive, g.Apply(SignalReset))
	assert.Equal(t, GateLive, g.Apply(SignalReset))

	assert.Equal(t, []GateState{GatePaused, GateLive}, changes)
}

func TestRefreshGate_Snapshot(t *testing.T) {
	g := NewRefreshGate()
	g.Apply(SignalZoom)
	g.Suppress()
	g.Suppress()

	snap := g.Snapshot()
	assert.Equal(t, "paused", snap.State)
	assert.False(t, snap.AnimationsEnabled)
	assert.EqualValues(t, 2, snap.SuppressedTicks)
}

func TestParseSignal(t *testing.T) {
	s, err := ParseSignal("pan")
	require.NoError(t, err)
	assert.Equal(t, SignalPan, s)

	_, err = ParseSignal("pinch")
	assert.Error(t, err)
}
