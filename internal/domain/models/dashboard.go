package models

import "time"

// DashboardSnapshot is a consolidated view of every data kind.
// Errors holds, per kind, the failure that forced a synthetic fallback.
type DashboardSnapshot struct {
	Symbol         string               `json:"symbol"`
	Timestamp      time.Time            `json:"timestamp"`
	Indicators     []TechnicalIndicator `json:"indicators"`
	DailySentiment []DailySentiment     `json:"daily_sentiment"`
	Posts          []SocialPost         `json:"posts"`
	Predictions    []PredictionPoint    `json:"predictions"`
	Metrics        *ModelMetrics        `json:"metrics,omitempty"`
	Health         *HealthStatus        `json:"health,omitempty"`
	Errors         map[string]string    `json:"errors,omitempty"`
}

// GateState is the observable state of the price refresh gate.
type GateState struct {
	State             string `json:"state"`
	AnimationsEnabled bool   `json:"animations_enabled"`
	SuppressedTicks   int64  `json:"suppressed_ticks"`
}
