package models

// SentimentLabel names a fear/greed regime.
type SentimentLabel string

const (
	ExtremeFear  SentimentLabel = "Extreme Fear"
	Fear         SentimentLabel = "Fear"
	Neutral      SentimentLabel = "Neutral"
	Greed        SentimentLabel = "Greed"
	ExtremeGreed SentimentLabel = "Extreme Greed"
)

// Source platforms counted in a SentimentReading.
const (
	SourceTwitter   = "twitter"
	SourceReddit    = "reddit"
	SourceNews      = "news"
	SourceInstagram = "instagram"
)

// SentimentReading is a 0..100 fear/greed score with per-platform post counts.
type SentimentReading struct {
	Value   int            `json:"value"`
	Label   SentimentLabel `json:"label"`
	Sources map[string]int `json:"sources"`
}

// LabelFor maps a score to its label using fixed thresholds.
func LabelFor(value int) SentimentLabel {
	switch {
	case value < 25:
		return ExtremeFear
	case value < 45:
		return Fear
	case value < 55:
		return Neutral
	case value < 75:
		return Greed
	default:
		return ExtremeGreed
	}
}

// DailySentiment is one day of aggregated social sentiment.
type DailySentiment struct {
	DateOnly           string  `json:"date_only"`
	TotalPosts         int     `json:"total_posts"`
	NetSentimentScore  float64 `json:"net_sentiment_score"` // -1.0 to 1.0
	FearIndex          float64 `json:"fear_index"`
	GreedIndex         float64 `json:"greed_index"`
	PositivePercentage float64 `json:"positive_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
	NeutralPercentage  float64 `json:"neutral_percentage"`
}
