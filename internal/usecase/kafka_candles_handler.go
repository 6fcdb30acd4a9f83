package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/middleware"
	pkgkafka "BTCPulse/pkg/kafka"
	"BTCPulse/pkg/logger"
	"BTCPulse/pkg/util"
)

// CandleProcessor is the guard in front of the price feed.
type CandleProcessor interface {
	Process(ctx context.Context, symbol string, c models.Candle) error
}

// KafkaCandlesHandler feeds externally produced candles into the live window.
type KafkaCandlesHandler struct {
	topic   string
	symbol  string
	guard   CandleProcessor
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewKafkaCandlesHandler(topic, symbol string, guard CandleProcessor, metrics domrepo.Metrics, log *logger.Logger) *KafkaCandlesHandler {
	return &KafkaCandlesHandler{
		topic:   topic,
		symbol:  symbol,
		guard:   guard,
		metrics: metrics,
		log:     log.With(logger.String("handler", "kafka_candles"), logger.String("topic", topic)),
	}
}

func (h *KafkaCandlesHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, time|t, open, high, low, close}; time in s or ms
type candleMessage struct {
	Symbol string  `json:"symbol"`
	Time   int64   `json:"time"`
	T      int64   `json:"t"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
}

func (h *KafkaCandlesHandler) Handle(ctx context.Context, b []byte) error {
	var m candleMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode candle: %w", err))
	}
	if m.Symbol != "" && !strings.EqualFold(m.Symbol, h.symbol) {
		return nil
	}
	ts := m.Time
	if ts == 0 {
		ts = m.T
	}
	c := models.Candle{
		Timestamp: util.EpochMillis(ts),
		Open:      m.Open,
		High:      m.High,
		Low:       m.Low,
		Close:     m.Close,
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.UnixMilli(c.Timestamp)).Seconds())

	err := h.guard.Process(ctx, h.symbol, c)
	switch {
	case err == nil:
		h.metrics.RecordMessageSent("window", h.symbol)
		return nil
	case errors.Is(err, ErrSuppressed), errors.Is(err, ErrOutOfOrder), errors.Is(err, ErrStopped), errors.Is(err, middleware.ErrStaleCandle):
		h.log.Debug("candle dropped", logger.Int64("time", c.Timestamp), logger.Error(err))
		return nil
	case errors.Is(err, middleware.ErrInvalidCandle):
		return pkgkafka.Permanent(err)
	default:
		h.metrics.RecordError("consumer_ingest")
		return err
	}
}

var _ pkgkafka.MessageHandler = (*KafkaCandlesHandler)(nil)
