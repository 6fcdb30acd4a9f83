package usecase

import (
	"context"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/pkg/logger"
)

// SocialFeed keeps the newest posts first, prepending one per tick and dropping the oldest past size.
type SocialFeed struct {
	symbol string
	size   int
	gen    *synthetic.Generator
	sink   domrepo.PostSink
	store  domrepo.SnapshotStore
	log    *logger.Logger
	ticker *Ticker

	mu    sync.RWMutex
	posts []models.SocialPost
}

// NewSocialFeed seeds the feed with size generated posts. sink and store may be nil.
func NewSocialFeed(
	symbol string,
	size int,
	period time.Duration,
	gen *synthetic.Generator,
	sink domrepo.PostSink,
	store domrepo.SnapshotStore,
	log *logger.Logger,
) *SocialFeed {
	if size <= 0 {
		size = 15
	}
	if period <= 0 {
		period = 10 * time.Second
	}
	f := &SocialFeed{
		symbol: symbol,
		size:   size,
		gen:    gen,
		sink:   sink,
		store:  store,
		log:    log.With(logger.String("feed", "social"), logger.String("symbol", symbol)),
		posts:  gen.SocialPosts(size, ""),
	}
	f.ticker = NewTicker(period, f.Tick)
	return f
}

// Posts returns a copy of the feed, optionally limited to one platform.
func (f *SocialFeed) Posts(platform models.Platform) []models.SocialPost {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.SocialPost, 0, len(f.posts))
	for _, p := range f.posts {
		if platform == "" || p.Platform == platform {
			out = append(out, p)
		}
	}
	return out
}

func (f *SocialFeed) Tick(ctx context.Context) {
	fresh := f.gen.SocialPosts(1, "")
	if len(fresh) == 0 {
		return
	}
	post := fresh[0]

	f.mu.Lock()
	next := make([]models.SocialPost, 0, f.size)
	next = append(next, post)
	for _, p := range f.posts {
		if len(next) == f.size {
			break
		}
		next = append(next, p)
	}
	f.posts = next
	f.mu.Unlock()

	if f.sink != nil {
		if err := f.sink.PublishPost(ctx, f.symbol, post); err != nil {
			f.log.Warn("publish post failed", logger.Int64("post_id", post.PostID), logger.Error(err))
		}
	}
	if f.store != nil {
		if err := f.store.SavePosts(ctx, f.symbol, next); err != nil {
			f.log.Warn("save posts failed", logger.Error(err))
		}
	}
}

func (f *SocialFeed) Start(ctx context.Context) { f.ticker.Start(ctx) }

func (f *SocialFeed) Stop() { f.ticker.Stop() }
