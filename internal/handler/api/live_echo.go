package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/service/ratelimit"
	"BTCPulse/internal/usecase"
	xhttp "BTCPulse/pkg/http"
	applogger "BTCPulse/pkg/logger"
)

// LiveConfig sets the default symbol and the interaction rate limit.
type LiveConfig struct {
	Symbol       string
	Burst        float64
	RefillPerSec float64
}

// LiveEchoHandler exposes the live feeds and the refresh gate.
type LiveEchoHandler struct {
	log       *applogger.Logger
	cfg       LiveConfig
	price     *usecase.PriceFeed
	sentiment *usecase.SentimentFeed
	social    *usecase.SocialFeed
	snapshot  *usecase.DashboardSnapshotUseCase
	limiter   *ratelimit.Limiter
}

func NewLiveEchoHandler(
	log *applogger.Logger,
	cfg LiveConfig,
	price *usecase.PriceFeed,
	sentiment *usecase.SentimentFeed,
	social *usecase.SocialFeed,
	snapshot *usecase.DashboardSnapshotUseCase,
	limiter *ratelimit.Limiter,
) *LiveEchoHandler {
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.RefillPerSec <= 0 {
		cfg.RefillPerSec = 5
	}
	return &LiveEchoHandler{
		log:       log,
		cfg:       cfg,
		price:     price,
		sentiment: sentiment,
		social:    social,
		snapshot:  snapshot,
		limiter:   limiter,
	}
}

func (h *LiveEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/live")
	g.GET("/candles", h.Candles)
	g.GET("/state", h.State)
	g.POST("/interaction", h.Interaction, ratelimit.Middleware(h.limiter, h.cfg.Burst, h.cfg.RefillPerSec))
	g.GET("/sentiment", h.Sentiment)
	g.GET("/posts", h.Posts)
	g.GET("/dashboard", h.Dashboard)
}

// LiveCandles is the current price window with the gate state it was read under.
type LiveCandles struct {
	Symbol   string           `json:"symbol"`
	Capacity int              `json:"capacity"`
	Candles  []models.Candle  `json:"candles"`
	Gate     models.GateState `json:"gate"`
}

func (h *LiveEchoHandler) Candles(c echo.Context) error {
	w := h.price.Window()
	return xhttp.SuccessResponse(c, LiveCandles{
		Symbol:   h.price.Symbol(),
		Capacity: w.Capacity,
		Candles:  w.Candles,
		Gate:     h.price.Gate().Snapshot(),
	})
}

func (h *LiveEchoHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.price.Gate().Snapshot())
}

func (h *LiveEchoHandler) Interaction(c echo.Context) error {
	req := &models.InteractionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sig, err := usecase.ParseSignal(req.Signal)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, h.price.Interaction(sig))
}

func (h *LiveEchoHandler) Sentiment(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.sentiment.Reading())
}

func (h *LiveEchoHandler) Posts(c echo.Context) error {
	req := &models.LivePostsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	posts := h.social.Posts(models.Platform(req.Platform))
	return xhttp.ListResponse(c, posts, int64(len(posts)))
}

func (h *LiveEchoHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		symbol = h.cfg.Symbol
	}
	snap, err := h.snapshot.Get(c.Request().Context(), usecase.SnapshotParams{
		Symbol:    symbol,
		ModelName: req.ModelName,
		DaysAhead: req.DaysAhead,
		PostLimit: req.Limit,
		Fallback:  req.Fallback == "true",
	})
	if err != nil {
		h.log.Error("dashboard snapshot failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}
