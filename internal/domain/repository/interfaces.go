package repository

import (
	"context"

	"BTCPulse/internal/domain/models"
)

// WindowSink receives every committed price window.
type WindowSink interface {
	Commit(ctx context.Context, symbol string, w models.SeriesWindow) error
}

// PostSink receives social posts as they enter the feed.
type PostSink interface {
	PublishPost(ctx context.Context, symbol string, p models.SocialPost) error
}

// SnapshotStore keeps the latest live state for readers outside the owning feed.
type SnapshotStore interface {
	SaveWindow(ctx context.Context, symbol string, w models.SeriesWindow) error
	LoadWindow(ctx context.Context, symbol string) (models.SeriesWindow, error)
	SaveSentiment(ctx context.Context, symbol string, s models.SentimentReading) error
	LoadSentiment(ctx context.Context, symbol string) (models.SentimentReading, error)
	SavePosts(ctx context.Context, symbol string, posts []models.SocialPost) error
	LoadPosts(ctx context.Context, symbol string) ([]models.SocialPost, error)
	Ping(ctx context.Context) error
}

// Metrics records feed and transport telemetry.
type Metrics interface {
	RecordTick(symbol string, committed bool)
	RecordMessageSent(backend, symbol string)
	RecordGateState(symbol string, paused bool)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
