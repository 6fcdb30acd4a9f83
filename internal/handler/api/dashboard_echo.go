package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/services/dataaccess"
	xhttp "BTCPulse/pkg/http"
	applogger "BTCPulse/pkg/logger"
)

// DataSource is the facade as seen by the HTTP layer.
type DataSource interface {
	dataaccess.Source
	Mode() string
}

// DashboardEchoHandler serves the backend data contract. Success bodies are the bare JSON the
// remote source decodes, so one instance can act as another's backend.
type DashboardEchoHandler struct {
	log   *applogger.Logger
	src   DataSource
	store domrepo.SnapshotStore
}

// NewDashboardEchoHandler builds the handler. store may be nil.
func NewDashboardEchoHandler(log *applogger.Logger, src DataSource, store domrepo.SnapshotStore) *DashboardEchoHandler {
	return &DashboardEchoHandler{log: log, src: src, store: store}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market/indicators/:symbol", h.Indicators)
	g.GET("/sentiment/daily/:symbol", h.DailySentiment)
	g.GET("/sentiment/posts/:symbol", h.Posts)
	g.GET("/predictions/metrics", h.Metrics)
	g.GET("/predictions/:symbol", h.Predictions)
	g.GET("/health", h.Health)
}

func (h *DashboardEchoHandler) fail(c echo.Context, op string, err error) error {
	mapped := appError(err)
	var appErr *xhttp.AppError
	if ae, ok := mapped.(*xhttp.AppError); ok {
		appErr = ae
	}
	if appErr != nil && appErr.Status >= http.StatusInternalServerError {
		h.log.Error(op+" failed", applogger.String("mode", h.src.Mode()), applogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}

func (h *DashboardEchoHandler) Indicators(c echo.Context) error {
	req := &models.DateRangeQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.src.Indicators(c.Request().Context(), c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, "indicators", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *DashboardEchoHandler) DailySentiment(c echo.Context) error {
	req := &models.DateRangeQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.src.DailySentiment(c.Request().Context(), c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, "daily sentiment", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *DashboardEchoHandler) Posts(c echo.Context) error {
	req := &models.PostsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.src.SocialPosts(c.Request().Context(), c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, "posts", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *DashboardEchoHandler) Predictions(c echo.Context) error {
	req := &models.PredictionsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.src.Predictions(c.Request().Context(), c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, "predictions", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *DashboardEchoHandler) Metrics(c echo.Context) error {
	req := &models.MetricsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	m, err := h.src.ModelMetrics(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "model metrics", err)
	}
	return c.JSON(http.StatusOK, m)
}

type healthResponse struct {
	models.HealthStatus
	Mode          string `json:"mode"`
	SnapshotStore string `json:"snapshot_store"`
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	st, err := h.src.Health(c.Request().Context())
	if err != nil {
		return h.fail(c, "health", err)
	}
	return c.JSON(http.StatusOK, healthResponse{
		HealthStatus:  st,
		Mode:          h.src.Mode(),
		SnapshotStore: h.storeStatus(c.Request().Context()),
	})
}

func (h *DashboardEchoHandler) storeStatus(ctx context.Context) string {
	if h.store == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("snapshot store ping failed", applogger.Error(err))
		return models.StatusDisconnected
	}
	return models.StatusConnected
}
