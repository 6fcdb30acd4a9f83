package synthetic

import (
	"fmt"
	"time"

	"BTCPulse/internal/domain/models"
)

type cannedPost struct {
	text      string
	sentiment models.PostSentiment
}

var cannedPosts = []cannedPost{
	{"Bitcoin looking bullish above 95k! 🚀 #BTC", models.PostPositive},
	{"BTC consolidating, expecting breakout soon", models.PostNeutral},
	{"Warning: RSI overbought, possible correction incoming", models.PostNegative},
	{"Just bought more BTC, this is the way! 💎🙌", models.PostPositive},
	{"Market looks uncertain, staying on sidelines", models.PostNeutral},
	{"Bearish divergence on 4H chart, be careful", models.PostNegative},
	{"Institutional adoption increasing! Bullish long-term", models.PostPositive},
	{"Volume decreasing, waiting for confirmation", models.PostNeutral},
	{"Support at 90k holding strong 💪", models.PostPositive},
	{"Fear & Greed index still in greed territory", models.PostNeutral},
}

var platforms = []models.Platform{models.PlatformTwitter, models.PlatformReddit}

// SocialPosts returns limit posts, newest first, each one post interval older than the last.
// An empty platform picks Twitter or Reddit at random per post.
func (g *Generator) SocialPosts(limit int, platform models.Platform) []models.SocialPost {
	if limit <= 0 {
		return []models.SocialPost{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	out := make([]models.SocialPost, 0, limit)
	for i := 0; i < limit; i++ {
		sample := cannedPosts[i%len(cannedPosts)]
		p := platform
		if p == "" {
			p = platforms[g.rng.Intn(len(platforms))]
		}
		lo, hi := sample.sentiment.ScoreBand()
		out = append(out, models.SocialPost{
			PostID:         g.ids.Next(),
			Platform:       p,
			Author:         fmt.Sprintf("CryptoUser%d", g.rng.Intn(1000)),
			Text:           sample.text,
			PostedAt:       now.Add(-time.Duration(i) * g.params.PostInterval),
			SentimentLabel: sample.sentiment,
			SentimentScore: g.uniform(lo, hi),
		})
	}
	return out
}
