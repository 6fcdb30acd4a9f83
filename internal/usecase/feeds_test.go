package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
	"BTCPulse/pkg/logger"
)

func TestSocialFeed_PrependsAndStaysBounded(t *testing.T) {
	sink := &recordingSink{}
	f := NewSocialFeed("BTC", 15, 0, newTestGenerator(3), sink, nil, logger.NewNop())

	before := f.Posts("")
	require.Len(t, before, 15)

	f.Tick(context.Background())
	after := f.Posts("")
	require.Len(t, after, 15)
	assert.EqualValues(t, 1016, after[0].PostID)
	assert.Equal(t, before[:14], after[1:])

	require.Len(t, sink.posts, 1)
	assert.Equal(t, after[0], sink.posts[0])
}

func TestSocialFeed_PlatformFilter(t *testing.T) {
	f := NewSocialFeed("BTC", 15, 0, newTestGenerator(3), nil, nil, logger.NewNop())
	for _, p := range f.Posts(models.PlatformReddit) {
		assert.Equal(t, models.PlatformReddit, p.Platform)
	}
}

func TestSentimentFeed_ReadingIsACopy(t *testing.T) {
	f := NewSentimentFeed("BTC", 0, newTestGenerator(5), nil, logger.NewNop())
	r := f.Reading()
	r.Sources[models.SourceTwitter] = -1
	assert.NotEqual(t, -1, f.Reading().Sources[models.SourceTwitter])

	f.Tick(context.Background())
	next := f.Reading()
	assert.Equal(t, models.LabelFor(next.Value), next.Label)
	assert.GreaterOrEqual(t, next.Value, 0)
	assert.LessOrEqual(t, next.Value, 100)
}
