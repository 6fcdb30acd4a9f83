package synthetic

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestGenerator(seed int64) *Generator {
	return New(
		WithSeed(seed),
		WithClock(func() time.Time { return fixedNow }),
		WithCounter(NewIDCounter(1000)),
	)
}

func TestCandles_LengthAndEnvelope(t *testing.T) {
	g := newTestGenerator(1)

	for _, n := range []int{1, 2, 100, 500} {
		cs := g.Candles(n)
		require.Len(t, cs, n)
		for i, c := range cs {
			assert.GreaterOrEqual(t, c.High, math.Max(c.Open, c.Close), "candle %d high", i)
			assert.LessOrEqual(t, c.Low, math.Min(c.Open, c.Close), "candle %d low", i)
			assert.True(t, c.Valid())
		}
	}
}

func TestCandles_FixedSpacingEndingBeforeNow(t *testing.T) {
	g := newTestGenerator(2)
	interval := g.Params().CandleInterval.Milliseconds()

	cs := g.Candles(100)
	require.Len(t, cs, 100)
	assert.Equal(t, fixedNow.UnixMilli()-interval, cs[len(cs)-1].Timestamp)
	for i := 1; i < len(cs); i++ {
		assert.Equal(t, interval, cs[i].Timestamp-cs[i-1].Timestamp)
	}
}

func TestCandles_OpenChainsPreviousClose(t *testing.T) {
	g := newTestGenerator(3)
	cs := g.Candles(50)
	assert.Equal(t, g.Params().SeedPrice, cs[0].Open)
	for i := 1; i < len(cs); i++ {
		assert.Equal(t, cs[i-1].Close, cs[i].Open)
	}
}

func TestCandles_NonPositiveSizeIsEmpty(t *testing.T) {
	g := newTestGenerator(4)
	assert.Empty(t, g.Candles(0))
	assert.Empty(t, g.Candles(-5))
	assert.NotNil(t, g.Candles(-5))
	assert.Equal(t, 0, g.Window(0).Len())
}

func TestCandles_SameSeedSameSeries(t *testing.T) {
	a := newTestGenerator(42).Candles(20)
	b := newTestGenerator(42).Candles(20)
	assert.Equal(t, a, b)
}

func TestStep_BodyWithinVolatility(t *testing.T) {
	g := newTestGenerator(5)
	prev := 50000.0
	slack := prev*g.Params().VolatilityFraction/2 + 1e-6
	for i := 0; i < 1000; i++ {
		c := g.Step(prev, int64(i))
		assert.Equal(t, prev, c.Open)
		assert.LessOrEqual(t, math.Abs(c.Close-c.Open), slack)
		assert.LessOrEqual(t, c.High-math.Max(c.Open, c.Close), slack)
		assert.LessOrEqual(t, math.Min(c.Open, c.Close)-c.Low, slack)
	}
}

func TestLabelFor_Thresholds(t *testing.T) {
	cases := map[int]models.SentimentLabel{
		0:   models.ExtremeFear,
		10:  models.ExtremeFear,
		24:  models.ExtremeFear,
		25:  models.Fear,
		30:  models.Fear,
		45:  models.Neutral,
		50:  models.Neutral,
		55:  models.Greed,
		60:  models.Greed,
		75:  models.ExtremeGreed,
		90:  models.ExtremeGreed,
		100: models.ExtremeGreed,
	}
	for v, want := range cases {
		assert.Equal(t, want, models.LabelFor(v), "value %d", v)
	}
}

func TestSentiment_RangeAndLabel(t *testing.T) {
	g := newTestGenerator(6)
	for i := 0; i < 500; i++ {
		s := g.Sentiment()
		assert.GreaterOrEqual(t, s.Value, 40)
		assert.Less(t, s.Value, 80)
		assert.Equal(t, models.LabelFor(s.Value), s.Label)

		assert.GreaterOrEqual(t, s.Sources[models.SourceTwitter], 500)
		assert.Less(t, s.Sources[models.SourceTwitter], 1500)
		assert.GreaterOrEqual(t, s.Sources[models.SourceReddit], 200)
		assert.Less(t, s.Sources[models.SourceReddit], 1000)
		assert.GreaterOrEqual(t, s.Sources[models.SourceNews], 20)
		assert.Less(t, s.Sources[models.SourceInstagram], 120)
	}
}

func TestSocialPosts_ScoreMatchesLabel(t *testing.T) {
	g := newTestGenerator(7)
	posts := g.SocialPosts(200, "")
	require.Len(t, posts, 200)
	for _, p := range posts {
		lo, hi := p.SentimentLabel.ScoreBand()
		assert.GreaterOrEqual(t, p.SentimentScore, lo, "post %d", p.PostID)
		assert.LessOrEqual(t, p.SentimentScore, hi, "post %d", p.PostID)
		assert.Contains(t, []models.Platform{models.PlatformTwitter, models.PlatformReddit}, p.Platform)
	}
}

func TestSocialPosts_NegativeBand(t *testing.T) {
	g := newTestGenerator(8)
	for _, p := range g.SocialPosts(100, "") {
		if p.SentimentLabel != models.PostNegative {
			continue
		}
		assert.GreaterOrEqual(t, p.SentimentScore, -1.0)
		assert.LessOrEqual(t, p.SentimentScore, -0.7)
	}
}

func TestSocialPosts_IDsFromInjectedCounter(t *testing.T) {
	counter := NewIDCounter(1000)
	g := New(WithSeed(9), WithClock(func() time.Time { return fixedNow }), WithCounter(counter))

	first := g.SocialPosts(3, "")
	second := g.SocialPosts(2, "")

	ids := []int64{}
	for _, p := range append(first, second...) {
		ids = append(ids, p.PostID)
	}
	assert.Equal(t, []int64{1001, 1002, 1003, 1004, 1005}, ids)
	assert.Equal(t, int64(1006), counter.Next())
}

func TestSocialPosts_TimeOffsetsAndPlatform(t *testing.T) {
	g := newTestGenerator(10)
	posts := g.SocialPosts(4, models.PlatformReddit)
	for i, p := range posts {
		assert.Equal(t, models.PlatformReddit, p.Platform)
		assert.Equal(t, fixedNow.Add(-time.Duration(i)*15*time.Minute), p.PostedAt)
	}
	assert.Empty(t, g.SocialPosts(0, ""))
}

func TestPredictions_BoundsAndSegments(t *testing.T) {
	g := newTestGenerator(11)
	points := g.Predictions(7)
	require.Len(t, points, 14)

	for i, p := range points {
		assert.LessOrEqual(t, p.LowerBound, p.PredictedPrice, "point %d", i)
		assert.LessOrEqual(t, p.PredictedPrice, p.UpperBound, "point %d", i)
		if p.IsFuture {
			assert.Nil(t, p.ActualPrice)
			assert.Nil(t, p.ErrorDiff)
			assert.InDelta(t, 2*futureMargin, p.UpperBound-p.LowerBound, 1e-6)
		} else {
			require.NotNil(t, p.ActualPrice)
			require.NotNil(t, p.ErrorDiff)
			assert.InDelta(t, math.Abs(*p.ActualPrice-p.PredictedPrice), *p.ErrorDiff, 1e-9)
			assert.InDelta(t, 2*pastMargin, p.UpperBound-p.LowerBound, 1e-6)
		}
	}
}

func TestPredictions_ContiguousDates(t *testing.T) {
	g := newTestGenerator(12)
	points := g.Predictions(3)
	require.Len(t, points, 10)

	assert.Equal(t, "2025-03-07", points[0].Date)
	assert.Equal(t, "2025-03-13", points[6].Date)
	assert.False(t, points[6].IsFuture)
	assert.Equal(t, "2025-03-14", points[7].Date)
	assert.True(t, points[7].IsFuture)

	for i := 1; i < len(points); i++ {
		prev, _ := time.Parse("2006-01-02", points[i-1].Date)
		cur, _ := time.Parse("2006-01-02", points[i].Date)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev))
	}
}

func TestIndicatorsAndDailySentiment(t *testing.T) {
	g := newTestGenerator(13)

	ind := g.Indicators(30)
	require.Len(t, ind, 31)
	assert.Equal(t, "2025-03-14", ind[30].DateOnly)
	for _, row := range ind {
		assert.GreaterOrEqual(t, row.RSI14, 30.0)
		assert.Less(t, row.RSI14, 70.0)
		assert.Greater(t, row.BollingerUpper, row.BollingerLower)
	}

	daily := g.DailySentiment(14)
	require.Len(t, daily, 15)
	for _, d := range daily {
		assert.InDelta(t, 100, d.PositivePercentage+d.NegativePercentage+d.NeutralPercentage, 1e-9)
		assert.LessOrEqual(t, d.NetSentimentScore, 1.0)
	}
}

func TestModelMetricsAndHealth(t *testing.T) {
	g := newTestGenerator(14)

	m := g.ModelMetrics("")
	assert.Equal(t, models.DefaultModelName, m.ModelName)
	assert.Equal(t, "2025-03-14", m.EvaluationDate)
	assert.Equal(t, models.BenchmarkSuccess, m.ImprovementVsBenchmark.Status)

	h := g.Health()
	assert.Equal(t, models.StatusHealthy, h.Status)
	assert.Equal(t, fixedNow, h.Timestamp)
}

func TestWithRand_InjectedSourceDrivesSeries(t *testing.T) {
	a := New(WithRand(rand.New(rand.NewSource(11))), WithClock(func() time.Time { return fixedNow }))
	b := New(WithRand(rand.New(rand.NewSource(11))), WithClock(func() time.Time { return fixedNow }))
	assert.Equal(t, a.Candles(20), b.Candles(20))
	assert.Equal(t, a.Sentiment(), b.Sentiment())
}
