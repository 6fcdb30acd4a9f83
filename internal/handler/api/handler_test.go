package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/repository"
	"BTCPulse/internal/service/ratelimit"
	"BTCPulse/internal/services/dataaccess"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/internal/usecase"
	"BTCPulse/pkg/cache"
	xhttp "BTCPulse/pkg/http"
	applogger "BTCPulse/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func testGenerator() *synthetic.Generator {
	return synthetic.New(
		synthetic.WithSeed(11),
		synthetic.WithClock(func() time.Time { return fixedNow }),
		synthetic.WithCounter(synthetic.NewIDCounter(1000)),
	)
}

type syntheticSource struct {
	*dataaccess.SyntheticSource
}

func (syntheticSource) Mode() string { return dataaccess.ModeSynthetic }

type brokenSource struct {
	syntheticSource
	err error
}

func (b brokenSource) Indicators(context.Context, string, models.DateRangeQuery) ([]models.TechnicalIndicator, error) {
	return nil, b.err
}

func (b brokenSource) Health(context.Context) (models.HealthStatus, error) {
	return models.HealthStatus{}, b.err
}

type nopMetrics struct{}

func (nopMetrics) RecordTick(string, bool)          {}
func (nopMetrics) RecordMessageSent(string, string) {}
func (nopMetrics) RecordGateState(string, bool)     {}
func (nopMetrics) RecordLastPrice(string, float64)  {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func dashboardEcho(src DataSource) *echo.Echo {
	e := echo.New()
	mem := cache.NewMemoryCache()
	NewDashboardEchoHandler(applogger.NewNop(), src, repository.NewCacheSnapshotStore(mem, 0)).RegisterRoutes(e)
	return e
}

func TestDashboard_ContractRoutesReturnBareJSON(t *testing.T) {
	e := dashboardEcho(syntheticSource{dataaccess.NewSyntheticSource(testGenerator())})

	rec := serve(e, http.MethodGet, "/api/sentiment/posts/BTC?limit=4&platform=Reddit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []models.SocialPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 4)
	for _, p := range posts {
		assert.Equal(t, models.PlatformReddit, p.Platform)
	}

	rec = serve(e, http.MethodGet, "/api/predictions/BTC?days_ahead=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var preds []models.PredictionPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preds))
	assert.Len(t, preds, 10)

	rec = serve(e, http.MethodGet, "/api/predictions/metrics?symbol=BTC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m models.ModelMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, models.DefaultModelName, m.ModelName)
}

func TestDashboard_HealthIncludesStoreStatus(t *testing.T) {
	e := dashboardEcho(syntheticSource{dataaccess.NewSyntheticSource(testGenerator())})

	rec := serve(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.StatusHealthy, body["status"])
	assert.Equal(t, dataaccess.ModeSynthetic, body["mode"])
	assert.Equal(t, models.StatusConnected, body["snapshot_store"])
}

func TestDashboard_InvalidFilterIs400(t *testing.T) {
	e := dashboardEcho(syntheticSource{dataaccess.NewSyntheticSource(testGenerator())})

	rec := serve(e, http.MethodGet, "/api/sentiment/posts/BTC?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestDashboard_UpstreamErrorsMapped(t *testing.T) {
	base := syntheticSource{dataaccess.NewSyntheticSource(testGenerator())}

	e := dashboardEcho(brokenSource{base, &dataaccess.RemoteError{Status: 500, Endpoint: "/market/indicators/BTC"}})
	rec := serve(e, http.MethodGet, "/api/market/indicators/BTC", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream_status")

	e = dashboardEcho(brokenSource{base, &dataaccess.TransportError{Endpoint: "/health", Err: errors.New("refused")}})
	rec = serve(e, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type liveFixture struct {
	e     *echo.Echo
	price *usecase.PriceFeed
	hub   *StreamHub
}

func newLiveFixture(t *testing.T) *liveFixture {
	t.Helper()
	gen := testGenerator()
	log := applogger.NewNop()
	syn := dataaccess.NewSyntheticSource(gen)

	price := usecase.NewPriceFeed(usecase.PriceFeedConfig{Symbol: "BTC", WindowSize: 20}, gen, usecase.NewRefreshGate(), nopMetrics{}, log)
	hub := NewStreamHub(log, price, []string{"*"})
	sentiment := usecase.NewSentimentFeed("BTC", 0, gen, nil, log)
	social := usecase.NewSocialFeed("BTC", 15, 0, gen, nil, nil, log)
	snap := usecase.NewDashboardSnapshotUseCase(struct {
		dataaccess.Source
		fallbackOnly
	}{syn, fallbackOnly{syn}}, log)

	e := echo.New()
	NewLiveEchoHandler(log, LiveConfig{Symbol: "BTC", Burst: 3, RefillPerSec: 0.001}, price, sentiment, social, snap, ratelimit.New()).RegisterRoutes(e)
	hub.RegisterRoutes(e)
	return &liveFixture{e: e, price: price, hub: hub}
}

type fallbackOnly struct{ src dataaccess.Source }

func (f fallbackOnly) Synthetic() dataaccess.Source { return f.src }

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) {
	t.Helper()
	env := xhttp.APIResponse{Data: data}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, rec.Code, env.Status)
}

func TestLive_CandlesAndInteraction(t *testing.T) {
	f := newLiveFixture(t)

	rec := serve(f.e, http.MethodGet, "/api/live/candles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lc LiveCandles
	decodeEnvelope(t, rec, &lc)
	assert.Equal(t, "BTC", lc.Symbol)
	assert.Len(t, lc.Candles, 20)
	assert.Equal(t, "live", lc.Gate.State)

	rec = serve(f.e, http.MethodPost, "/api/live/interaction", `{"signal":"zoom"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var st models.GateState
	decodeEnvelope(t, rec, &st)
	assert.Equal(t, "paused", st.State)
	assert.False(t, st.AnimationsEnabled)

	before := f.price.Window()
	f.price.Tick(context.Background())
	assert.Equal(t, before, f.price.Window())

	rec = serve(f.e, http.MethodPost, "/api/live/interaction", `{"signal":"pinch"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLive_InteractionRateLimited(t *testing.T) {
	f := newLiveFixture(t)
	for i := 0; i < 3; i++ {
		rec := serve(f.e, http.MethodPost, "/api/live/interaction", `{"signal":"pan"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(f.e, http.MethodPost, "/api/live/interaction", `{"signal":"reset"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLive_PostsAndDashboard(t *testing.T) {
	f := newLiveFixture(t)

	rec := serve(f.e, http.MethodGet, "/api/live/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []models.SocialPost `json:"rows"`
		Total int64               `json:"total"`
	}
	decodeEnvelope(t, rec, &list)
	assert.EqualValues(t, 15, list.Total)

	rec = serve(f.e, http.MethodGet, "/api/live/dashboard?days_ahead=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap models.DashboardSnapshot
	decodeEnvelope(t, rec, &snap)
	assert.Equal(t, "BTC", snap.Symbol)
	assert.Len(t, snap.Predictions, 9)
	assert.Empty(t, snap.Errors)

	rec = serve(f.e, http.MethodGet, "/api/live/dashboard?fallback=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamHub_PushesCommittedWindows(t *testing.T) {
	f := newLiveFixture(t)
	srv := httptest.NewServer(f.e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/candles", nil)
	require.NoError(t, err)
	defer conn.Close()

	var first WindowMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Len(t, first.Candles, 20)

	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	w := f.price.Window()
	next := w.Append(models.Candle{Timestamp: w.Candles[19].Timestamp + 1, Open: 1, High: 1, Low: 1, Close: 1})
	require.NoError(t, f.hub.Commit(context.Background(), "BTC", next))

	var pushed WindowMessage
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, next.Candles, pushed.Candles)

	f.hub.Close()
	assert.Equal(t, 0, f.hub.Clients())
}

type frozenWindow struct{ w models.SeriesWindow }

func (s frozenWindow) Symbol() string              { return "BTC" }
func (s frozenWindow) Window() models.SeriesWindow { return s.w }

func TestStreamHub_FirstFrameNotOlderThanLastCommit(t *testing.T) {
	stale := models.NewSeriesWindow(3, []models.Candle{
		{Timestamp: 1000, Open: 1, High: 2, Low: 1, Close: 1},
		{Timestamp: 2000, Open: 1, High: 2, Low: 1, Close: 1},
	})
	newer := stale.Append(models.Candle{Timestamp: 3000, Open: 1, High: 2, Low: 1, Close: 2})

	hub := NewStreamHub(applogger.NewNop(), frozenWindow{w: stale}, []string{"*"})
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()
	defer hub.Close()

	// A commit that lands after the source was read but before the client registers.
	require.NoError(t, hub.Commit(context.Background(), "BTC", newer))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/candles", nil)
	require.NoError(t, err)
	defer conn.Close()

	var first WindowMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, newer.Candles, first.Candles)
}
