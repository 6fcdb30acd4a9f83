// Package synthetic produces plausible market, sentiment and prediction data for the dashboard
// when no backend is available. Every function is total: bad sizes yield empty results, never errors.
package synthetic

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Params tunes the random walks.
type Params struct {
	SeedPrice          float64       // first open of a fresh candle series
	PredictionSeed     float64       // starting price of the prediction walk
	VolatilityFraction float64       // per-step volatility as a fraction of the previous close
	CandleInterval     time.Duration // spacing between candles
	PostInterval       time.Duration // spacing between generated posts
}

func DefaultParams() Params {
	return Params{
		SeedPrice:          98000,
		PredictionSeed:     97000,
		VolatilityFraction: 0.002,
		CandleInterval:     15 * time.Minute,
		PostInterval:       15 * time.Minute,
	}
}

// IDCounter hands out process-unique, monotonically increasing post ids.
type IDCounter struct {
	v atomic.Int64
}

func NewIDCounter(start int64) *IDCounter {
	c := &IDCounter{}
	c.v.Store(start)
	return c
}

// Next increments and returns the counter.
func (c *IDCounter) Next() int64 { return c.v.Add(1) }

// Option configures Generator.
type Option func(*Generator)

// WithRand injects the random source. Use a seeded source for reproducible output.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithSeed seeds a fresh random source.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithCounter injects the post id counter.
func WithCounter(c *IDCounter) Option {
	return func(g *Generator) {
		if c != nil {
			g.ids = c
		}
	}
}

// WithParams replaces the walk parameters. Zero fields keep their defaults.
func WithParams(p Params) Option {
	return func(g *Generator) {
		if p.SeedPrice > 0 {
			g.params.SeedPrice = p.SeedPrice
		}
		if p.PredictionSeed > 0 {
			g.params.PredictionSeed = p.PredictionSeed
		}
		if p.VolatilityFraction > 0 {
			g.params.VolatilityFraction = p.VolatilityFraction
		}
		if p.CandleInterval > 0 {
			g.params.CandleInterval = p.CandleInterval
		}
		if p.PostInterval > 0 {
			g.params.PostInterval = p.PostInterval
		}
	}
}

// Generator is safe for concurrent use; draws from the shared random source are serialized.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	ids    *IDCounter
	params Params
}

// New creates a Generator. Without options it is seeded from the clock and its id counter
// starts at the current epoch millis.
func New(opts ...Option) *Generator {
	now := time.Now()
	g := &Generator{
		rng:    rand.New(rand.NewSource(now.UnixNano())),
		now:    time.Now,
		params: DefaultParams(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.ids == nil {
		g.ids = NewIDCounter(now.UnixMilli())
	}
	return g
}

// Params returns the active walk parameters.
func (g *Generator) Params() Params { return g.params }

// Now reads the generator clock.
func (g *Generator) Now() time.Time { return g.now() }

// uniform draws from [lo, hi). Caller holds g.mu.
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// intRange draws from [lo, lo+span). Caller holds g.mu.
func (g *Generator) intRange(lo, span int) int {
	if span <= 0 {
		return lo
	}
	return lo + g.rng.Intn(span)
}

func dateOnly(t time.Time) string { return t.UTC().Format("2006-01-02") }
