package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
)

// Sink is the downstream the guard forwards accepted candles to.
type Sink interface {
	Ingest(ctx context.Context, c models.Candle) error
}

var (
	ErrInvalidCandle = errors.New("invalid candle")
	ErrStaleCandle   = errors.New("stale candle")
)

// CandleGuard sits between an external candle feed and the price window. It rejects candles that
// break the OHLC envelope or arrive out of order, and throttles bursts per symbol.
type CandleGuard struct {
	sink    Sink
	metrics domrepo.Metrics
	minGap  time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastTS   map[string]int64
	lastSeen map[string]time.Time
}

type GuardOption func(*CandleGuard)

// WithMaxRPS caps accepted candles per second per symbol. 0 disables throttling.
func WithMaxRPS(n int) GuardOption {
	return func(g *CandleGuard) {
		if n > 0 {
			g.minGap = time.Second / time.Duration(n)
		} else {
			g.minGap = 0
		}
	}
}

func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *CandleGuard) {
		if now != nil {
			g.now = now
		}
	}
}

func NewCandleGuard(sink Sink, metrics domrepo.Metrics, opts ...GuardOption) *CandleGuard {
	g := &CandleGuard{
		sink:     sink,
		metrics:  metrics,
		minGap:   time.Second / 20,
		now:      time.Now,
		lastTS:   make(map[string]int64),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Process validates c and forwards it. Throttled candles are dropped without error.
func (g *CandleGuard) Process(ctx context.Context, symbol string, c models.Candle) error {
	start := g.now()
	if err := validateCandle(c); err != nil {
		g.metrics.RecordError("guard_validate")
		return err
	}

	g.mu.Lock()
	if last, ok := g.lastTS[symbol]; ok && c.Timestamp <= last {
		g.mu.Unlock()
		g.metrics.RecordError("guard_stale")
		return fmt.Errorf("%w: %d after %d", ErrStaleCandle, c.Timestamp, last)
	}
	if !g.allowLocked(symbol, start) {
		g.mu.Unlock()
		g.metrics.RecordError("guard_throttle")
		return nil
	}
	g.mu.Unlock()

	// Stale and throttle marks advance only for candles the sink accepted.
	if err := g.sink.Ingest(ctx, c); err != nil {
		return fmt.Errorf("guard downstream: %w", err)
	}
	g.mu.Lock()
	if c.Timestamp > g.lastTS[symbol] {
		g.lastTS[symbol] = c.Timestamp
	}
	if g.minGap > 0 {
		g.lastSeen[symbol] = start
	}
	g.mu.Unlock()
	g.metrics.RecordLatency("guard_process", g.now().Sub(start).Seconds())
	return nil
}

func validateCandle(c models.Candle) error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: non-positive or non-finite price", ErrInvalidCandle)
		}
	}
	if c.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp %d", ErrInvalidCandle, c.Timestamp)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: high/low do not contain open/close", ErrInvalidCandle)
	}
	return nil
}

func (g *CandleGuard) allowLocked(symbol string, now time.Time) bool {
	if g.minGap <= 0 {
		return true
	}
	last, ok := g.lastSeen[symbol]
	return !ok || now.Sub(last) >= g.minGap
}
