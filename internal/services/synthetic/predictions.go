package synthetic

import (
	"math"

	"BTCPulse/internal/domain/models"
)

const (
	pastDays     = 7
	pastMargin   = 1500.0
	futureMargin = 2000.0
)

// Predictions walks a seed price through seven realised days ending yesterday, then projects
// daysAhead days starting today. Future bands are wider than past ones.
func (g *Generator) Predictions(daysAhead int) []models.PredictionPoint {
	if daysAhead < 0 {
		daysAhead = 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	price := g.params.PredictionSeed
	out := make([]models.PredictionPoint, 0, pastDays+daysAhead)

	for i := pastDays; i >= 1; i-- {
		actual := price + (g.rng.Float64()-0.5)*2000
		predicted := actual + (g.rng.Float64()-0.5)*500
		diff := math.Abs(actual - predicted)
		out = append(out, models.PredictionPoint{
			Date:           dateOnly(now.AddDate(0, 0, -i)),
			ActualPrice:    &actual,
			PredictedPrice: predicted,
			LowerBound:     predicted - pastMargin,
			UpperBound:     predicted + pastMargin,
			ErrorDiff:      &diff,
			IsFuture:       false,
		})
		price = actual
	}

	for i := 0; i < daysAhead; i++ {
		predicted := price + (g.rng.Float64()-0.3)*3000
		out = append(out, models.PredictionPoint{
			Date:           dateOnly(now.AddDate(0, 0, i)),
			PredictedPrice: predicted,
			LowerBound:     predicted - futureMargin,
			UpperBound:     predicted + futureMargin,
			IsFuture:       true,
		})
		price = predicted
	}
	return out
}
