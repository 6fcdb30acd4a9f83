// Package dataaccess is the single entry point for dashboard data. A Source either calls the
// configured backend or answers from the synthetic generator; callers never know which.
package dataaccess

import (
	"context"

	"BTCPulse/internal/domain/models"
)

// Source answers every dashboard data request.
type Source interface {
	Indicators(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.TechnicalIndicator, error)
	DailySentiment(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.DailySentiment, error)
	SocialPosts(ctx context.Context, symbol string, q models.PostsQuery) ([]models.SocialPost, error)
	Predictions(ctx context.Context, symbol string, q models.PredictionsQuery) ([]models.PredictionPoint, error)
	ModelMetrics(ctx context.Context, q models.MetricsQuery) (models.ModelMetrics, error)
	Health(ctx context.Context) (models.HealthStatus, error)
}

// Data kinds, used as metric labels and snapshot error keys.
const (
	KindIndicators     = "indicators"
	KindDailySentiment = "daily_sentiment"
	KindPosts          = "posts"
	KindPredictions    = "predictions"
	KindMetrics        = "metrics"
	KindHealth         = "health"
)
