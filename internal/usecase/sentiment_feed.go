package usecase

import (
	"context"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/pkg/logger"
)

// SentimentFeed replaces its reading wholesale on every tick.
type SentimentFeed struct {
	symbol string
	gen    *synthetic.Generator
	store  domrepo.SnapshotStore
	log    *logger.Logger
	ticker *Ticker

	mu      sync.RWMutex
	reading models.SentimentReading
}

// NewSentimentFeed builds the feed. store may be nil.
func NewSentimentFeed(symbol string, period time.Duration, gen *synthetic.Generator, store domrepo.SnapshotStore, log *logger.Logger) *SentimentFeed {
	if period <= 0 {
		period = 5 * time.Second
	}
	f := &SentimentFeed{
		symbol:  symbol,
		gen:     gen,
		store:   store,
		log:     log.With(logger.String("feed", "sentiment"), logger.String("symbol", symbol)),
		reading: gen.Sentiment(),
	}
	f.ticker = NewTicker(period, f.Tick)
	return f
}

// Reading returns a copy of the latest reading.
func (f *SentimentFeed) Reading() models.SentimentReading {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyReading(f.reading)
}

func (f *SentimentFeed) Tick(ctx context.Context) {
	next := f.gen.Sentiment()

	f.mu.Lock()
	f.reading = next
	f.mu.Unlock()

	if f.store != nil {
		if err := f.store.SaveSentiment(ctx, f.symbol, next); err != nil {
			f.log.Warn("save sentiment failed", logger.Error(err))
		}
	}
}

func (f *SentimentFeed) Start(ctx context.Context) { f.ticker.Start(ctx) }

func (f *SentimentFeed) Stop() { f.ticker.Stop() }

func copyReading(r models.SentimentReading) models.SentimentReading {
	out := r
	out.Sources = make(map[string]int, len(r.Sources))
	for k, v := range r.Sources {
		out.Sources[k] = v
	}
	return out
}
