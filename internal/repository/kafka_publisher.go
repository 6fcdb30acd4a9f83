package repository

import (
	"context"
	"fmt"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
)

// Publisher is the slice of the Kafka producer the sinks need.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// CandleEvent is the wire shape of a committed candle. The candle consumer reads the same shape.
type CandleEvent struct {
	Symbol string  `json:"symbol"`
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
}

// PostEvent wraps a social post with its symbol.
type PostEvent struct {
	Symbol string            `json:"symbol"`
	Post   models.SocialPost `json:"post"`
}

// KafkaPublisher fans committed candles and new posts out to Kafka, keyed by symbol.
type KafkaPublisher struct {
	pub          Publisher
	metrics      domrepo.Metrics
	candlesTopic string
	postsTopic   string
}

func NewKafkaPublisher(pub Publisher, metrics domrepo.Metrics, candlesTopic, postsTopic string) *KafkaPublisher {
	return &KafkaPublisher{pub: pub, metrics: metrics, candlesTopic: candlesTopic, postsTopic: postsTopic}
}

// Commit publishes the newest candle of w.
func (p *KafkaPublisher) Commit(ctx context.Context, symbol string, w models.SeriesWindow) error {
	last, ok := w.Last()
	if !ok || p.candlesTopic == "" {
		return nil
	}
	ev := CandleEvent{Symbol: symbol, Time: last.Timestamp, Open: last.Open, High: last.High, Low: last.Low, Close: last.Close}
	if err := p.pub.Publish(ctx, p.candlesTopic, []byte(symbol), ev); err != nil {
		p.metrics.RecordError("kafka_publish")
		return fmt.Errorf("publish candle: %w", err)
	}
	p.metrics.RecordMessageSent("kafka", symbol)
	return nil
}

func (p *KafkaPublisher) PublishPost(ctx context.Context, symbol string, post models.SocialPost) error {
	if p.postsTopic == "" {
		return nil
	}
	if err := p.pub.Publish(ctx, p.postsTopic, []byte(symbol), PostEvent{Symbol: symbol, Post: post}); err != nil {
		p.metrics.RecordError("kafka_publish")
		return fmt.Errorf("publish post: %w", err)
	}
	p.metrics.RecordMessageSent("kafka", symbol)
	return nil
}

var (
	_ domrepo.WindowSink = (*KafkaPublisher)(nil)
	_ domrepo.PostSink   = (*KafkaPublisher)(nil)
)
