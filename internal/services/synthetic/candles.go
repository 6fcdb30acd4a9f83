package synthetic

import (
	"math"

	"BTCPulse/internal/domain/models"
)

// Step derives the next candle from the previous close with one random-walk step:
// open is the previous close, the body moves by up to half the volatility either way,
// and the wicks extend the body by up to half the volatility.
func (g *Generator) Step(prevClose float64, ts int64) models.Candle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step(prevClose, ts)
}

func (g *Generator) step(prevClose float64, ts int64) models.Candle {
	volatility := math.Abs(prevClose * g.params.VolatilityFraction)
	open := prevClose
	close := open + (g.rng.Float64()-0.5)*volatility
	high := math.Max(open, close) + g.rng.Float64()*volatility*0.5
	low := math.Min(open, close) - g.rng.Float64()*volatility*0.5
	return models.Candle{Timestamp: ts, Open: open, High: high, Low: low, Close: close}
}

// Candles builds n candles spaced by the candle interval, the newest one interval before now.
func (g *Generator) Candles(n int) []models.Candle {
	if n <= 0 {
		return []models.Candle{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	interval := g.params.CandleInterval.Milliseconds()
	price := g.params.SeedPrice

	out := make([]models.Candle, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		c := g.step(price, now-int64(remaining)*interval)
		out = append(out, c)
		price = c.Close
	}
	return out
}

// Window wraps Candles(n) in a window of capacity n.
func (g *Generator) Window(n int) models.SeriesWindow {
	return models.NewSeriesWindow(n, g.Candles(n))
}
