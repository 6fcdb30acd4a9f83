package models

import "time"

type Platform string

const (
	PlatformTwitter Platform = "Twitter"
	PlatformReddit  Platform = "Reddit"
)

// PostSentiment is the classifier label attached to a post.
type PostSentiment string

const (
	PostPositive PostSentiment = "positive"
	PostNegative PostSentiment = "negative"
	PostNeutral  PostSentiment = "neutral"
)

// ScoreBand returns the inclusive score range a label implies.
func (s PostSentiment) ScoreBand() (lo, hi float64) {
	switch s {
	case PostPositive:
		return 0.7, 1.0
	case PostNegative:
		return -1.0, -0.7
	default:
		return -0.2, 0.2
	}
}

type SocialPost struct {
	PostID         int64         `json:"post_id"`
	Platform       Platform      `json:"platform"`
	Author         string        `json:"author"`
	Text           string        `json:"text"`
	PostedAt       time.Time     `json:"posted_at"`
	SentimentLabel PostSentiment `json:"sentiment_label"`
	SentimentScore float64       `json:"sentiment_score"`
}
