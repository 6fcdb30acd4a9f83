package synthetic

import (
	"math"

	"BTCPulse/internal/domain/models"
)

// Sentiment draws a reading biased toward the neutral-to-greedy range (40..79).
func (g *Generator) Sentiment() models.SentimentReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	value := g.intRange(40, 40)
	return models.SentimentReading{
		Value: value,
		Label: models.LabelFor(value),
		Sources: map[string]int{
			models.SourceTwitter:   g.intRange(500, 1000),
			models.SourceReddit:    g.intRange(200, 800),
			models.SourceNews:      g.intRange(20, 100),
			models.SourceInstagram: g.intRange(20, 100),
		},
	}
}

// DailySentiment returns days+1 daily aggregates ending today.
func (g *Generator) DailySentiment(days int) []models.DailySentiment {
	if days < 0 {
		return []models.DailySentiment{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	out := make([]models.DailySentiment, 0, days+1)
	for i := days; i >= 0; i-- {
		positive := g.uniform(40, 70)
		negative := g.uniform(10, 35)
		out = append(out, models.DailySentiment{
			DateOnly:           dateOnly(now.AddDate(0, 0, -i)),
			TotalPosts:         g.intRange(3000, 5000),
			NetSentimentScore:  math.Min((g.rng.Float64()-0.3)*1.5, 1),
			FearIndex:          g.uniform(0, 0.5),
			GreedIndex:         g.uniform(0.5, 1.0),
			PositivePercentage: positive,
			NegativePercentage: negative,
			NeutralPercentage:  100 - positive - negative,
		})
	}
	return out
}
