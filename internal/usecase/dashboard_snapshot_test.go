package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BTCPulse/internal/domain/models"
	"BTCPulse/internal/services/dataaccess"
	"BTCPulse/pkg/logger"
)

// flakySource fails indicators and health and answers the rest synthetically.
type flakySource struct {
	dataaccess.Source
	fallback dataaccess.Source
}

func (s *flakySource) Indicators(context.Context, string, models.DateRangeQuery) ([]models.TechnicalIndicator, error) {
	return nil, &dataaccess.RemoteError{Status: 500, Endpoint: "/market/indicators/BTC"}
}

func (s *flakySource) Health(context.Context) (models.HealthStatus, error) {
	return models.HealthStatus{}, &dataaccess.TransportError{Endpoint: "/health", Err: errors.New("refused")}
}

func (s *flakySource) Synthetic() dataaccess.Source { return s.fallback }

func newFlakySource() *flakySource {
	syn := dataaccess.NewSyntheticSource(newTestGenerator(9))
	return &flakySource{Source: syn, fallback: syn}
}

func TestDashboardSnapshot_FallbackFillsFailedKinds(t *testing.T) {
	uc := NewDashboardSnapshotUseCase(newFlakySource(), logger.NewNop())

	snap, err := uc.Get(context.Background(), SnapshotParams{Symbol: "BTC", Fallback: true})
	require.NoError(t, err)

	assert.NotEmpty(t, snap.Indicators)
	require.NotNil(t, snap.Health)
	assert.Len(t, snap.Posts, 10)
	assert.Len(t, snap.Predictions, 14)
	require.NotNil(t, snap.Metrics)

	assert.Contains(t, snap.Errors, dataaccess.KindIndicators)
	assert.Contains(t, snap.Errors, dataaccess.KindHealth)
	assert.Len(t, snap.Errors, 2)
}

func TestDashboardSnapshot_NoFallbackLeavesGaps(t *testing.T) {
	uc := NewDashboardSnapshotUseCase(newFlakySource(), logger.NewNop())

	snap, err := uc.Get(context.Background(), SnapshotParams{Symbol: "BTC"})
	require.NoError(t, err)
	assert.Empty(t, snap.Indicators)
	assert.Nil(t, snap.Health)
	assert.NotEmpty(t, snap.DailySentiment)
}

func TestDashboardSnapshot_RequiresSymbol(t *testing.T) {
	uc := NewDashboardSnapshotUseCase(newFlakySource(), logger.NewNop())
	_, err := uc.Get(context.Background(), SnapshotParams{Symbol: "  "})
	assert.Error(t, err)
}
