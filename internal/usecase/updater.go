package usecase

import (
	"time"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/synthetic"
)

// Updater advances a price window by one random-walk candle.
type Updater struct {
	gen      *synthetic.Generator
	interval int64
}

func NewUpdater(gen *synthetic.Generator, interval time.Duration) *Updater {
	if interval <= 0 {
		interval = gen.Params().CandleInterval
	}
	return &Updater{gen: gen, interval: interval.Milliseconds()}
}

// Next returns w plus one candle derived from its newest close, evicting the oldest
// candle past capacity. An empty window is returned unchanged; w itself is never modified.
func (u *Updater) Next(w models.SeriesWindow) models.SeriesWindow {
	last, ok := w.Last()
	if !ok {
		return w
	}
	c := u.gen.Step(last.Close, last.Timestamp+u.interval)
	return w.Append(c)
}
