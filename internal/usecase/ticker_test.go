package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicker_FiresUntilStopped(t *testing.T) {
	var n atomic.Int64
	tk := NewTicker(5*time.Millisecond, func(context.Context) { n.Add(1) })
	tk.Start(context.Background())

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	tk.Stop()
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, n.Load())

	tk.Stop()
	tk.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "a stopped ticker does not restart")
}

func TestTicker_StopsWithContext(t *testing.T) {
	var n atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	tk := NewTicker(5*time.Millisecond, func(context.Context) { n.Add(1) })
	tk.Start(ctx)
	cancel()
	tk.Stop()

	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}
