package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/pkg/cache"
)

// ErrNoSnapshot is returned when nothing has been saved for the symbol yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// CacheSnapshotStore keeps the latest live state in a cache.Service (memory, Redis or layered).
type CacheSnapshotStore struct {
	c   cache.Service
	ttl time.Duration
}

// NewCacheSnapshotStore stores entries with ttl; 0 keeps them until overwritten.
func NewCacheSnapshotStore(c cache.Service, ttl time.Duration) *CacheSnapshotStore {
	return &CacheSnapshotStore{c: c, ttl: ttl}
}

func (s *CacheSnapshotStore) save(ctx context.Context, kind, symbol string, v interface{}) error {
	if err := s.c.Set(ctx, cache.Key(kind, symbol), v, s.ttl); err != nil {
		return fmt.Errorf("save %s %s: %w", kind, symbol, err)
	}
	return nil
}

func (s *CacheSnapshotStore) load(ctx context.Context, kind, symbol string, dest interface{}) error {
	err := s.c.Get(ctx, cache.Key(kind, symbol), dest)
	if errors.Is(err, cache.ErrCacheMiss) {
		return fmt.Errorf("%s %s: %w", kind, symbol, ErrNoSnapshot)
	}
	if err != nil {
		return fmt.Errorf("load %s %s: %w", kind, symbol, err)
	}
	return nil
}

func (s *CacheSnapshotStore) SaveWindow(ctx context.Context, symbol string, w models.SeriesWindow) error {
	return s.save(ctx, "window", symbol, w)
}

func (s *CacheSnapshotStore) LoadWindow(ctx context.Context, symbol string) (models.SeriesWindow, error) {
	var w models.SeriesWindow
	err := s.load(ctx, "window", symbol, &w)
	return w, err
}

// Commit lets the store act as a WindowSink of the price feed.
func (s *CacheSnapshotStore) Commit(ctx context.Context, symbol string, w models.SeriesWindow) error {
	return s.SaveWindow(ctx, symbol, w)
}

func (s *CacheSnapshotStore) SaveSentiment(ctx context.Context, symbol string, r models.SentimentReading) error {
	return s.save(ctx, "sentiment", symbol, r)
}

func (s *CacheSnapshotStore) LoadSentiment(ctx context.Context, symbol string) (models.SentimentReading, error) {
	var r models.SentimentReading
	err := s.load(ctx, "sentiment", symbol, &r)
	return r, err
}

func (s *CacheSnapshotStore) SavePosts(ctx context.Context, symbol string, posts []models.SocialPost) error {
	return s.save(ctx, "posts", symbol, posts)
}

func (s *CacheSnapshotStore) LoadPosts(ctx context.Context, symbol string) ([]models.SocialPost, error) {
	var posts []models.SocialPost
	err := s.load(ctx, "posts", symbol, &posts)
	return posts, err
}

func (s *CacheSnapshotStore) Ping(ctx context.Context) error { return s.c.Ping(ctx) }

var (
	_ domrepo.SnapshotStore = (*CacheSnapshotStore)(nil)
	_ domrepo.WindowSink    = (*CacheSnapshotStore)(nil)
)
