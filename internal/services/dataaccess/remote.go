package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	xhttp "BTCPulse/pkg/http"
	"BTCPulse/pkg/logger"
	xutil "BTCPulse/pkg/util"
)

// RemoteSource calls the dashboard backend. One attempt per call: no retry, cache or backoff.
type RemoteSource struct {
	baseURL string
	client  *xhttp.Client
	metrics domrepo.Metrics
	log     *logger.Logger
}

// NewRemoteSource builds a backend client. metrics may be nil.
func NewRemoteSource(baseURL string, timeout time.Duration, metrics domrepo.Metrics, log *logger.Logger, opts ...xhttp.ClientOption) *RemoteSource {
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	return &RemoteSource{
		baseURL: baseURL,
		client:  xhttp.NewClient(opts...),
		metrics: metrics,
		log:     log.With(logger.String("source", "remote")),
	}
}

// get issues GET baseURL+endpoint and decodes the JSON body into dest.
func (r *RemoteSource) get(ctx context.Context, kind, endpoint string, query url.Values, dest interface{}) error {
	requestID := uuid.NewString()
	start := time.Now()

	err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         xutil.JoinURL(r.baseURL, endpoint),
		Headers:     map[string]string{"X-Request-ID": requestID},
		QueryParams: query,
	}, dest)
	if r.metrics != nil {
		r.metrics.RecordLatency("fetch_"+kind, time.Since(start).Seconds())
	}
	if err == nil {
		return nil
	}

	var statusErr *xhttp.StatusError
	switch {
	case errors.As(err, &statusErr):
		err = &RemoteError{Status: statusErr.StatusCode, Endpoint: endpoint, Body: statusErr.Body}
	case errors.Is(err, xhttp.ErrDecode):
		err = fmt.Errorf("%s: %w", endpoint, err)
	default:
		err = &TransportError{Endpoint: endpoint, Err: err}
	}

	if r.metrics != nil {
		r.metrics.RecordError("fetch_" + kind)
	}
	r.log.Error("api fetch failed",
		logger.String("endpoint", endpoint),
		logger.String("request_id", requestID),
		logger.Error(err),
	)
	return err
}

func dateRangeParams(q models.DateRangeQuery) url.Values {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	return v
}

func (r *RemoteSource) Indicators(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.TechnicalIndicator, error) {
	var out []models.TechnicalIndicator
	if err := r.get(ctx, KindIndicators, "/market/indicators/"+url.PathEscape(symbol), dateRangeParams(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteSource) DailySentiment(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.DailySentiment, error) {
	var out []models.DailySentiment
	if err := r.get(ctx, KindDailySentiment, "/sentiment/daily/"+url.PathEscape(symbol), dateRangeParams(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteSource) SocialPosts(ctx context.Context, symbol string, q models.PostsQuery) ([]models.SocialPost, error) {
	params := url.Values{"limit": {strconv.Itoa(q.Limit)}}
	if q.Platform != "" {
		params.Set("platform", q.Platform)
	}
	var out []models.SocialPost
	if err := r.get(ctx, KindPosts, "/sentiment/posts/"+url.PathEscape(symbol), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteSource) Predictions(ctx context.Context, symbol string, q models.PredictionsQuery) ([]models.PredictionPoint, error) {
	params := url.Values{
		"model_name": {q.ModelName},
		"days_ahead": {strconv.Itoa(q.DaysAhead)},
	}
	var out []models.PredictionPoint
	if err := r.get(ctx, KindPredictions, "/predictions/"+url.PathEscape(symbol), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteSource) ModelMetrics(ctx context.Context, q models.MetricsQuery) (models.ModelMetrics, error) {
	params := url.Values{
		"symbol":     {q.Symbol},
		"model_name": {q.ModelName},
	}
	var out models.ModelMetrics
	err := r.get(ctx, KindMetrics, "/predictions/metrics", params, &out)
	return out, err
}

func (r *RemoteSource) Health(ctx context.Context) (models.HealthStatus, error) {
	var out models.HealthStatus
	err := r.get(ctx, KindHealth, "/health", nil, &out)
	return out, err
}

var _ Source = (*RemoteSource)(nil)
