package usecase

import (
	"context"
	"sync"
	"time"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/synthetic"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestGenerator(seed int64) *synthetic.Generator {
	return synthetic.New(
		synthetic.WithSeed(seed),
		synthetic.WithClock(func() time.Time { return fixedNow }),
		synthetic.WithCounter(synthetic.NewIDCounter(1000)),
	)
}

type fakeMetrics struct {
	mu        sync.Mutex
	committed int
	skipped   int
	errors    map[string]int
	sent      int
	paused    bool
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: map[string]int{}} }

func (m *fakeMetrics) RecordTick(_ string, committed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if committed {
		m.committed++
	} else {
		m.skipped++
	}
}

func (m *fakeMetrics) RecordMessageSent(string, string) {
	m.mu.Lock()
	m.sent++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordGateState(_ string, paused bool) {
	m.mu.Lock()
	m.paused = paused
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastPrice(string, float64) {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

type recordingSink struct {
	mu      sync.Mutex
	windows []models.SeriesWindow
	posts   []models.SocialPost
}

func (s *recordingSink) Commit(_ context.Context, _ string, w models.SeriesWindow) error {
	s.mu.Lock()
	s.windows = append(s.windows, w)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) PublishPost(_ context.Context, _ string, p models.SocialPost) error {
	s.mu.Lock()
	s.posts = append(s.posts, p)
	s.mu.Unlock()
	return nil
}
