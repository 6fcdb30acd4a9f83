package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/dataaccess"
	"BTCPulse/pkg/logger"
)

// FallbackSource is the facade view the snapshot needs: the active source plus the generator.
type FallbackSource interface {
	dataaccess.Source
	Synthetic() dataaccess.Source
}

// DashboardSnapshotUseCase fetches every data kind concurrently. A kind whose fetch fails is
// refilled from synthetic data and the failure is reported under Errors.
type DashboardSnapshotUseCase struct {
	src     FallbackSource
	log     *logger.Logger
	timeout time.Duration
}

func NewDashboardSnapshotUseCase(src FallbackSource, log *logger.Logger) *DashboardSnapshotUseCase {
	return &DashboardSnapshotUseCase{src: src, log: log, timeout: 10 * time.Second}
}

type SnapshotParams struct {
	Symbol    string
	ModelName string
	DaysAhead int
	PostLimit int
	// Fallback refills failed kinds from the generator. When false they are left empty.
	Fallback bool
}

func (uc *DashboardSnapshotUseCase) Get(ctx context.Context, p SnapshotParams) (*models.DashboardSnapshot, error) {
	if strings.TrimSpace(p.Symbol) == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.ModelName == "" {
		p.ModelName = models.DefaultModelName
	}
	if p.DaysAhead <= 0 {
		p.DaysAhead = 7
	}
	if p.PostLimit <= 0 {
		p.PostLimit = 10
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.DashboardSnapshot{
		Symbol:    p.Symbol,
		Timestamp: time.Now().UTC(),
		Errors:    map[string]string{},
	}
	postsQ := models.PostsQuery{Limit: p.PostLimit}
	predQ := models.PredictionsQuery{ModelName: p.ModelName, DaysAhead: p.DaysAhead}
	metricsQ := models.MetricsQuery{Symbol: p.Symbol, ModelName: p.ModelName}

	type item struct {
		kind string
		val  interface{}
		err  error
	}
	fetchers := map[string]func(ctx context.Context, s dataaccess.Source) (interface{}, error){
		dataaccess.KindIndicators: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.Indicators(ctx, p.Symbol, models.DateRangeQuery{})
		},
		dataaccess.KindDailySentiment: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.DailySentiment(ctx, p.Symbol, models.DateRangeQuery{})
		},
		dataaccess.KindPosts: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.SocialPosts(ctx, p.Symbol, postsQ)
		},
		dataaccess.KindPredictions: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.Predictions(ctx, p.Symbol, predQ)
		},
		dataaccess.KindMetrics: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.ModelMetrics(ctx, metricsQ)
		},
		dataaccess.KindHealth: func(ctx context.Context, s dataaccess.Source) (interface{}, error) {
			return s.Health(ctx)
		},
	}

	ch := make(chan item, len(fetchers))
	var wg sync.WaitGroup
	for kind, fetch := range fetchers {
		wg.Add(1)
		go func(kind string, fetch func(context.Context, dataaccess.Source) (interface{}, error)) {
			defer wg.Done()
			v, err := fetch(ctx, uc.src)
			if err != nil {
				v = nil
				if p.Fallback {
					if fv, ferr := fetch(ctx, uc.src.Synthetic()); ferr == nil {
						v = fv
					}
				}
			}
			ch <- item{kind, v, err}
		}(kind, fetch)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.kind] = it.err.Error()
			uc.log.Warn("dashboard fetch failed",
				logger.String("kind", it.kind),
				logger.Bool("fallback", p.Fallback),
				logger.Error(it.err),
			)
		}
		if it.val == nil {
			continue
		}
		switch v := it.val.(type) {
		case []models.TechnicalIndicator:
			res.Indicators = v
		case []models.DailySentiment:
			res.DailySentiment = v
		case []models.SocialPost:
			res.Posts = v
		case []models.PredictionPoint:
			res.Predictions = v
		case models.ModelMetrics:
			res.Metrics = &v
		case models.HealthStatus:
			res.Health = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
