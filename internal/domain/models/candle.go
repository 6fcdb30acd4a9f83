package models

import "math"

// Candle is one OHLC bucket. Timestamp is epoch milliseconds.
type Candle struct {
	Timestamp int64   `json:"time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// Valid reports whether the high/low envelope contains open and close.
func (c Candle) Valid() bool {
	if math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) || math.IsNaN(c.Close) {
		return false
	}
	return c.High >= math.Max(c.Open, c.Close) && c.Low <= math.Min(c.Open, c.Close)
}

// SeriesWindow is a fixed-capacity, ascending-by-time run of candles.
// Transitions always build a new backing array; a window handed out is never written again.
type SeriesWindow struct {
	Capacity int      `json:"capacity"`
	Candles  []Candle `json:"candles"`
}

// NewSeriesWindow copies candles into a window, keeping only the newest capacity entries.
func NewSeriesWindow(capacity int, candles []Candle) SeriesWindow {
	if capacity < 0 {
		capacity = 0
	}
	if len(candles) > capacity {
		candles = candles[len(candles)-capacity:]
	}
	out := make([]Candle, len(candles))
	copy(out, candles)
	return SeriesWindow{Capacity: capacity, Candles: out}
}

func (w SeriesWindow) Len() int { return len(w.Candles) }

// Last returns the newest candle.
func (w SeriesWindow) Last() (Candle, bool) {
	if len(w.Candles) == 0 {
		return Candle{}, false
	}
	return w.Candles[len(w.Candles)-1], true
}

// Append returns a new window with c at the end, evicting from the front past capacity.
func (w SeriesWindow) Append(c Candle) SeriesWindow {
	next := make([]Candle, 0, len(w.Candles)+1)
	next = append(next, w.Candles...)
	next = append(next, c)
	if len(next) > w.Capacity {
		next = next[len(next)-w.Capacity:]
	}
	return SeriesWindow{Capacity: w.Capacity, Candles: next}
}

// Clone returns a deep copy safe to hand to readers.
func (w SeriesWindow) Clone() SeriesWindow {
	return NewSeriesWindow(w.Capacity, w.Candles)
}
