package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/pkg/logger"
)

var (
	// ErrOutOfOrder is returned when an ingested candle is not newer than the window's last one.
	ErrOutOfOrder = errors.New("candle not newer than window tail")
	// ErrSuppressed is returned when the gate discards an ingested candle.
	ErrSuppressed = errors.New("refresh gate paused")
	// ErrStopped is returned by Ingest once the feed has been stopped.
	ErrStopped = errors.New("price feed stopped")
)

type PriceFeedConfig struct {
	Symbol     string
	WindowSize int
	Period     time.Duration
	// AutoTick drives the window from the generator. Disabled when candles arrive by ingest.
	AutoTick bool
}

// PriceFeed owns the live price window. Every mutation (tick or ingest) happens under mu,
// readers get copies, and committed windows are pushed to the sinks in commit order.
type PriceFeed struct {
	cfg     PriceFeedConfig
	updater *Updater
	gate    *RefreshGate
	sinks   []domrepo.WindowSink
	metrics domrepo.Metrics
	log     *logger.Logger

	mu      sync.Mutex
	window  models.SeriesWindow
	ticker  *Ticker
	stopped bool
}

func NewPriceFeed(
	cfg PriceFeedConfig,
	gen *synthetic.Generator,
	gate *RefreshGate,
	metrics domrepo.Metrics,
	log *logger.Logger,
	sinks ...domrepo.WindowSink,
) *PriceFeed {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 100
	}
	if cfg.Period <= 0 {
		cfg.Period = 15 * time.Second
	}
	f := &PriceFeed{
		cfg:     cfg,
		updater: NewUpdater(gen, gen.Params().CandleInterval),
		gate:    gate,
		sinks:   sinks,
		metrics: metrics,
		log:     log.With(logger.String("feed", "price"), logger.String("symbol", cfg.Symbol)),
		window:  gen.Window(cfg.WindowSize),
	}
	gate.OnChange(func(s GateState) {
		f.metrics.RecordGateState(cfg.Symbol, s == GatePaused)
		f.log.Info("refresh gate changed", logger.String("state", s.String()))
	})
	return f
}

func (f *PriceFeed) Symbol() string { return f.cfg.Symbol }

// Window returns a copy of the current window.
func (f *PriceFeed) Window() models.SeriesWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window.Clone()
}

func (f *PriceFeed) Gate() *RefreshGate { return f.gate }

// AddSink registers a sink for subsequent commits.
func (f *PriceFeed) AddSink(s domrepo.WindowSink) {
	if s == nil {
		return
	}
	f.mu.Lock()
	f.sinks = append(f.sinks, s)
	f.mu.Unlock()
}

// Interaction applies a presentation signal to the refresh gate.
func (f *PriceFeed) Interaction(sig Signal) models.GateState {
	f.gate.Apply(sig)
	return f.gate.Snapshot()
}

// Tick applies one generator step unless the gate is paused. It reports whether a window was committed.
func (f *PriceFeed) Tick(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return false
	}
	if f.gate.State() == GatePaused {
		f.gate.Suppress()
		f.metrics.RecordTick(f.cfg.Symbol, false)
		return false
	}
	f.commitLocked(ctx, f.updater.Next(f.window))
	return true
}

// Ingest merges an externally produced candle through the same gate and window contract.
func (f *PriceFeed) Ingest(ctx context.Context, c models.Candle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return ErrStopped
	}
	if last, ok := f.window.Last(); ok && c.Timestamp <= last.Timestamp {
		return fmt.Errorf("%w: %d <= %d", ErrOutOfOrder, c.Timestamp, last.Timestamp)
	}
	if f.gate.State() == GatePaused {
		f.gate.Suppress()
		f.metrics.RecordTick(f.cfg.Symbol, false)
		return ErrSuppressed
	}
	f.commitLocked(ctx, f.window.Append(c))
	return nil
}

func (f *PriceFeed) commitLocked(ctx context.Context, next models.SeriesWindow) {
	f.window = next
	f.metrics.RecordTick(f.cfg.Symbol, true)
	if last, ok := next.Last(); ok {
		f.metrics.RecordLastPrice(f.cfg.Symbol, last.Close)
	}
	for _, s := range f.sinks {
		if err := s.Commit(ctx, f.cfg.Symbol, next); err != nil {
			f.metrics.RecordError("window_sink")
			f.log.Warn("window sink failed", logger.Error(err))
		}
	}
}

// Start begins periodic refresh when AutoTick is set.
func (f *PriceFeed) Start(ctx context.Context) {
	if !f.cfg.AutoTick {
		return
	}
	f.mu.Lock()
	if f.ticker == nil {
		f.ticker = NewTicker(f.cfg.Period, func(ctx context.Context) { f.Tick(ctx) })
	}
	t := f.ticker
	f.mu.Unlock()
	t.Start(ctx)
	f.log.Info("price feed started", logger.Duration("period_ms", f.cfg.Period))
}

// Stop halts the ticker and refuses further ticks and ingests. Nothing mutates the window after it returns.
func (f *PriceFeed) Stop() {
	f.mu.Lock()
	f.stopped = true
	t := f.ticker
	f.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}
