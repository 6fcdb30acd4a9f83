package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches []DiagnosticsBatch
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.(DiagnosticsBatch))
	return nil
}

func TestCollector_DeduplicatesAndFlushesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.AddCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "btcpulse.diagnostics",
		Service:        "btcpulse",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		log.Error("remote fetch failed", String("endpoint", "/health"), Error(errors.New("boom")))
	}
	log.Error("other failure")
	log.Info("not collected")
	log.RemoveCollector()

	require.Len(t, pub.batches, 1)
	assert.Equal(t, "btcpulse.diagnostics", pub.topic)
	batch := pub.batches[0]
	assert.Equal(t, "btcpulse", batch.Service)
	require.Len(t, batch.Entries, 2)

	counts := map[string]int{}
	for _, e := range batch.Entries {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, 3, counts["remote fetch failed"])
	assert.Equal(t, 1, counts["other failure"])
	assert.Contains(t, buf.String(), "not collected")
}

func TestCollector_ThresholdFlush(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Publisher: pub})

	c.AddLog("error", "a", nil, "x.go:1")
	assert.Equal(t, 1, c.Pending())
	c.AddLog("error", "b", nil, "x.go:2")
	assert.Equal(t, 0, c.Pending())
	c.Close()

	require.Len(t, pub.batches, 1)
	assert.Len(t, pub.batches[0].Entries, 2)
}

func TestFields(t *testing.T) {
	k, v := Float64("close", 98000.5).GetKeyValue()
	assert.Equal(t, "close", k)
	assert.Equal(t, 98000.5, v)

	k, v = Duration("took", 1500*time.Millisecond).GetKeyValue()
	assert.Equal(t, "took", k)
	assert.Equal(t, int64(1500), v)

	_, v = ErrorField{Key: "error"}.GetKeyValue()
	assert.Nil(t, v)
}

func TestCollector_SharedWithChildLoggers(t *testing.T) {
	pub := &capturePublisher{}
	root := NewWithWriter(&bytes.Buffer{})
	child := root.With(String("feed", "price"))

	root.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Publisher: pub, IncludeWarnings: true})
	child.Warn("window sink failed")
	root.RemoveCollector()
	child.Error("after removal")

	require.Len(t, pub.batches, 1)
	require.Len(t, pub.batches[0].Entries, 1)
	assert.Equal(t, "warn", pub.batches[0].Entries[0].Level)
}
