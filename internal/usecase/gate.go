package usecase

import (
	"fmt"
	"sync"
	"sync/atomic"

	"BTCPulse/internal/domain/models"
)

// GateState is Live (refreshes commit) or Paused (refreshes are discarded).
type GateState int

const (
	GateLive GateState = iota
	GatePaused
)

func (s GateState) String() string {
	if s == GatePaused {
		return "paused"
	}
	return "live"
}

// Signal is an abstract presentation gesture.
type Signal string

const (
	SignalZoom   Signal = "zoom"
	SignalPan    Signal = "pan"
	SignalScroll Signal = "scroll"
	SignalReset  Signal = "reset"
)

// ParseSignal maps a wire name to a Signal.
func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case SignalZoom, SignalPan, SignalScroll, SignalReset:
		return Signal(s), nil
	}
	return "", fmt.Errorf("unknown interaction signal %q", s)
}

// RefreshGate pauses price commits while the user inspects a zoomed or panned view.
// Only an explicit reset resumes; there is no timeout.
type RefreshGate struct {
	mu         sync.RWMutex
	state      GateState
	suppressed atomic.Int64
	onChange   func(GateState)
}

func NewRefreshGate() *RefreshGate { return &RefreshGate{state: GateLive} }

// OnChange registers a callback fired after each state transition.
func (g *RefreshGate) OnChange(fn func(GateState)) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
}

// Apply feeds a signal to the gate and returns the resulting state.
func (g *RefreshGate) Apply(sig Signal) GateState {
	next := GatePaused
	if sig == SignalReset {
		next = GateLive
	}

	g.mu.Lock()
	changed := g.state != next
	g.state = next
	cb := g.onChange
	g.mu.Unlock()

	if changed && cb != nil {
		cb(next)
	}
	return next
}

func (g *RefreshGate) State() GateState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// AnimationsEnabled reports whether committed updates should animate. True only while Live.
func (g *RefreshGate) AnimationsEnabled() bool { return g.State() == GateLive }

// Suppress records a discarded refresh.
func (g *RefreshGate) Suppress() { g.suppressed.Add(1) }

func (g *RefreshGate) Snapshot() models.GateState {
	st := g.State()
	return models.GateState{
		State:             st.String(),
		AnimationsEnabled: st == GateLive,
		SuppressedTicks:   g.suppressed.Load(),
	}
}
