package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/synthetic"
	xhttp "BTCPulse/pkg/http"
	"BTCPulse/pkg/logger"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func testGenerator() *synthetic.Generator {
	return synthetic.New(
		synthetic.WithSeed(7),
		synthetic.WithClock(func() time.Time { return testNow }),
		synthetic.WithCounter(synthetic.NewIDCounter(0)),
	)
}

func newFacade(t *testing.T, mode, baseURL string) *Facade {
	t.Helper()
	return New(context.Background(), Config{Mode: mode, BaseURL: baseURL, Timeout: 2 * time.Second},
		testGenerator(), nil, logger.NewNop())
}

func TestRemote_NonSuccessStatusIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newFacade(t, ModeRemote, srv.URL)
	_, err := f.Predictions(context.Background(), "BTC", models.PredictionsQuery{})

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusNotFound, remoteErr.Status)
	assert.Equal(t, "/predictions/BTC", remoteErr.Endpoint)
	assert.Contains(t, err.Error(), "404")
}

func TestRemote_UnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newFacade(t, ModeRemote, url)
	_, err := f.Health(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "/health", transportErr.Endpoint)
	assert.NotNil(t, errors.Unwrap(transportErr))
}

func TestRemote_BuildsContractRequests(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/predictions/metrics":
			_ = json.NewEncoder(w).Encode(models.ModelMetrics{ModelName: "Hybrid-LSTM"})
		case "/api/health":
			_ = json.NewEncoder(w).Encode(models.HealthStatus{Status: models.StatusHealthy})
		default:
			_, _ = w.Write([]byte("[]"))
		}
	}))
	defer srv.Close()

	f := newFacade(t, ModeRemote, srv.URL+"/api")
	ctx := context.Background()

	_, err := f.Indicators(ctx, "BTC", models.DateRangeQuery{StartDate: "2025-03-01", EndDate: "2025-03-10"})
	require.NoError(t, err)
	_, err = f.DailySentiment(ctx, "BTC", models.DateRangeQuery{})
	require.NoError(t, err)
	_, err = f.SocialPosts(ctx, "BTC", models.PostsQuery{Limit: 5, Platform: "Reddit"})
	require.NoError(t, err)
	_, err = f.Predictions(ctx, "BTC", models.PredictionsQuery{})
	require.NoError(t, err)
	m, err := f.ModelMetrics(ctx, models.MetricsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Hybrid-LSTM", m.ModelName)
	h, err := f.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHealthy, h.Status)

	assert.Equal(t, []string{
		"/api/market/indicators/BTC?end_date=2025-03-10&start_date=2025-03-01",
		"/api/sentiment/daily/BTC",
		"/api/sentiment/posts/BTC?limit=5&platform=Reddit",
		"/api/predictions/BTC?days_ahead=7&model_name=Hybrid-LSTM",
		"/api/predictions/metrics?model_name=Hybrid-LSTM&symbol=BTC",
		"/api/health",
	}, seen)
}

func TestRemote_DecodeFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	f := newFacade(t, ModeRemote, srv.URL)
	_, err := f.Indicators(context.Background(), "BTC", models.DateRangeQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, xhttp.ErrDecode)
}

func TestFacade_ValidationBeforeAnyCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	f := newFacade(t, ModeRemote, srv.URL)
	ctx := context.Background()

	_, err := f.SocialPosts(ctx, "BTC", models.PostsQuery{Limit: 500})
	var verrs *xhttp.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = f.Predictions(ctx, "BTC", models.PredictionsQuery{DaysAhead: 99})
	require.ErrorAs(t, err, &verrs)

	_, err = f.Indicators(ctx, "BTC", models.DateRangeQuery{StartDate: "03/01/2025"})
	require.ErrorAs(t, err, &verrs)

	_, err = f.Indicators(ctx, " ", models.DateRangeQuery{})
	assert.ErrorIs(t, err, ErrSymbolRequired)

	assert.Equal(t, int32(0), calls.Load())
}

func TestFacade_AutoFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := newFacade(t, ModeAuto, url)
	assert.Equal(t, ModeSynthetic, f.Mode())

	posts, err := f.SocialPosts(context.Background(), "BTC", models.PostsQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 10)
}

func TestFacade_AutoUsesReachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.HealthStatus{Status: models.StatusHealthy})
	}))
	defer srv.Close()

	f := newFacade(t, ModeAuto, srv.URL)
	assert.Equal(t, ModeRemote, f.Mode())
}

func TestSynthetic_HonoursFilters(t *testing.T) {
	f := newFacade(t, ModeSynthetic, "")
	ctx := context.Background()

	ind, err := f.Indicators(ctx, "BTC", models.DateRangeQuery{})
	require.NoError(t, err)
	assert.Len(t, ind, 31)

	ind, err = f.Indicators(ctx, "BTC", models.DateRangeQuery{StartDate: "2025-03-10", EndDate: "2025-03-12"})
	require.NoError(t, err)
	require.Len(t, ind, 3)
	assert.Equal(t, "2025-03-10", ind[0].DateOnly)
	assert.Equal(t, "2025-03-12", ind[2].DateOnly)

	// A start older than the default history extends generation back to it.
	ind, err = f.Indicators(ctx, "BTC", models.DateRangeQuery{StartDate: "2025-01-13"})
	require.NoError(t, err)
	require.Len(t, ind, 61)
	assert.Equal(t, "2025-01-13", ind[0].DateOnly)
	assert.Equal(t, "2025-03-14", ind[60].DateOnly)

	daily, err := f.DailySentiment(ctx, "BTC", models.DateRangeQuery{})
	require.NoError(t, err)
	assert.Len(t, daily, 15)

	posts, err := f.SocialPosts(ctx, "BTC", models.PostsQuery{Limit: 4, Platform: "Twitter"})
	require.NoError(t, err)
	require.Len(t, posts, 4)
	for _, p := range posts {
		assert.Equal(t, models.PlatformTwitter, p.Platform)
	}

	preds, err := f.Predictions(ctx, "BTC", models.PredictionsQuery{DaysAhead: 3})
	require.NoError(t, err)
	assert.Len(t, preds, 10)

	m, err := f.ModelMetrics(ctx, models.MetricsQuery{ModelName: "ARIMA"})
	require.NoError(t, err)
	assert.Equal(t, "ARIMA", m.ModelName)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRemote_TransportFailureFromRoundTripper(t *testing.T) {
	boom := errors.New("connection reset")
	var requestID string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		requestID = r.Header.Get("X-Request-ID")
		return nil, boom
	})

	f := New(context.Background(), Config{Mode: ModeRemote, BaseURL: "http://backend.invalid/api", Timeout: time.Second},
		testGenerator(), nil, logger.NewNop(), xhttp.WithTransport(rt))
	_, err := f.SocialPosts(context.Background(), "BTC", models.PostsQuery{Limit: 3})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "/sentiment/posts/BTC", transportErr.Endpoint)
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, requestID)
}
