package dataaccess

import (
	"context"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/synthetic"
	xutil "BTCPulse/pkg/util"
)

const (
	defaultIndicatorDays = 30
	defaultSentimentDays = 14
	maxHistoryDays       = 365
)

// SyntheticSource answers from the generator, honouring the same filters the backend does.
type SyntheticSource struct {
	gen *synthetic.Generator
}

func NewSyntheticSource(gen *synthetic.Generator) *SyntheticSource {
	return &SyntheticSource{gen: gen}
}

// historyDays is how many days back from today must be generated to cover q.
func (s *SyntheticSource) historyDays(q models.DateRangeQuery, def int) int {
	days := xutil.DaysBetween(q.StartDate, xutil.FormatDate(s.gen.Now()), def)
	if days > maxHistoryDays {
		return maxHistoryDays
	}
	return days
}

func (s *SyntheticSource) Indicators(_ context.Context, _ string, q models.DateRangeQuery) ([]models.TechnicalIndicator, error) {
	rows := s.gen.Indicators(s.historyDays(q, defaultIndicatorDays))
	out := rows[:0]
	for _, r := range rows {
		if xutil.DateInRange(r.DateOnly, q.StartDate, q.EndDate) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SyntheticSource) DailySentiment(_ context.Context, _ string, q models.DateRangeQuery) ([]models.DailySentiment, error) {
	rows := s.gen.DailySentiment(s.historyDays(q, defaultSentimentDays))
	out := rows[:0]
	for _, r := range rows {
		if xutil.DateInRange(r.DateOnly, q.StartDate, q.EndDate) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SyntheticSource) SocialPosts(_ context.Context, _ string, q models.PostsQuery) ([]models.SocialPost, error) {
	return s.gen.SocialPosts(q.Limit, models.Platform(q.Platform)), nil
}

func (s *SyntheticSource) Predictions(_ context.Context, _ string, q models.PredictionsQuery) ([]models.PredictionPoint, error) {
	return s.gen.Predictions(q.DaysAhead), nil
}

func (s *SyntheticSource) ModelMetrics(_ context.Context, q models.MetricsQuery) (models.ModelMetrics, error) {
	return s.gen.ModelMetrics(q.ModelName), nil
}

func (s *SyntheticSource) Health(_ context.Context) (models.HealthStatus, error) {
	return s.gen.Health(), nil
}

var _ Source = (*SyntheticSource)(nil)
