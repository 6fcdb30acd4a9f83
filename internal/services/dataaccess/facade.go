package dataaccess

import (
	"context"
	"errors"
	"strings"
	"time"

	"BTCPulse/internal/domain/models"
	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/services/synthetic"
	xhttp "BTCPulse/pkg/http"
	"BTCPulse/pkg/logger"
)

// Modes accepted by New.
const (
	ModeRemote    = "remote"
	ModeSynthetic = "synthetic"
	ModeAuto      = "auto"
)

// ErrSymbolRequired is returned before any call when the symbol is blank.
var ErrSymbolRequired = errors.New("symbol is required")

type Config struct {
	Mode    string
	BaseURL string
	Timeout time.Duration
	// ProbeTimeout bounds the auto-mode health probe; defaults to Timeout.
	ProbeTimeout time.Duration
}

// Facade validates filters, then forwards to the source chosen at construction.
type Facade struct {
	mode      string
	active    Source
	synthetic *SyntheticSource
	log       *logger.Logger
}

// New selects the active source. In auto mode one health probe decides: a reachable
// backend is used for the process lifetime, otherwise the generator is.
func New(ctx context.Context, cfg Config, gen *synthetic.Generator, metrics domrepo.Metrics, log *logger.Logger, opts ...xhttp.ClientOption) *Facade {
	f := &Facade{
		synthetic: NewSyntheticSource(gen),
		log:       log.With(logger.String("component", "dataaccess")),
	}

	switch strings.ToLower(cfg.Mode) {
	case ModeRemote:
		f.mode = ModeRemote
		f.active = NewRemoteSource(cfg.BaseURL, cfg.Timeout, metrics, log, opts...)
	case ModeSynthetic:
		f.mode = ModeSynthetic
		f.active = f.synthetic
	default:
		remote := NewRemoteSource(cfg.BaseURL, cfg.Timeout, metrics, log, opts...)
		probe := cfg.ProbeTimeout
		if probe <= 0 {
			probe = cfg.Timeout
		}
		pctx, cancel := context.WithTimeout(ctx, probe)
		_, err := remote.Health(pctx)
		cancel()
		if err != nil {
			f.mode = ModeSynthetic
			f.active = f.synthetic
			f.log.Warn("backend unreachable, serving synthetic data",
				logger.String("base_url", cfg.BaseURL), logger.Error(err))
		} else {
			f.mode = ModeRemote
			f.active = remote
		}
	}

	f.log.Info("data source selected", logger.String("mode", f.mode), logger.String("base_url", cfg.BaseURL))
	return f
}

// Mode reports the active source: "remote" or "synthetic".
func (f *Facade) Mode() string { return f.mode }

// Synthetic exposes the generator-backed source for caller-side fallback.
func (f *Facade) Synthetic() Source { return f.synthetic }

func (f *Facade) Indicators(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.TechnicalIndicator, error) {
	if err := prepare(ctx, symbol, &q); err != nil {
		return nil, err
	}
	return f.active.Indicators(ctx, symbol, q)
}

func (f *Facade) DailySentiment(ctx context.Context, symbol string, q models.DateRangeQuery) ([]models.DailySentiment, error) {
	if err := prepare(ctx, symbol, &q); err != nil {
		return nil, err
	}
	return f.active.DailySentiment(ctx, symbol, q)
}

func (f *Facade) SocialPosts(ctx context.Context, symbol string, q models.PostsQuery) ([]models.SocialPost, error) {
	if err := prepare(ctx, symbol, &q); err != nil {
		return nil, err
	}
	return f.active.SocialPosts(ctx, symbol, q)
}

func (f *Facade) Predictions(ctx context.Context, symbol string, q models.PredictionsQuery) ([]models.PredictionPoint, error) {
	if err := prepare(ctx, symbol, &q); err != nil {
		return nil, err
	}
	return f.active.Predictions(ctx, symbol, q)
}

func (f *Facade) ModelMetrics(ctx context.Context, q models.MetricsQuery) (models.ModelMetrics, error) {
	if err := xhttp.ValidateStruct(ctx, &q); err != nil {
		return models.ModelMetrics{}, err
	}
	return f.active.ModelMetrics(ctx, q)
}

func (f *Facade) Health(ctx context.Context) (models.HealthStatus, error) {
	return f.active.Health(ctx)
}

func prepare(ctx context.Context, symbol string, q interface{}) error {
	if strings.TrimSpace(symbol) == "" {
		return ErrSymbolRequired
	}
	return xhttp.ValidateStruct(ctx, q)
}

var _ Source = (*Facade)(nil)
