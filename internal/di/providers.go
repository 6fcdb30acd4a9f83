package di

import (
	"context"
	"fmt"

	domrepo "BTCPulse/internal/domain/repository"
	"BTCPulse/internal/handler/api"
	mid "BTCPulse/internal/middleware"
	internalrepo "BTCPulse/internal/repository"
	"BTCPulse/internal/service/ratelimit"
	"BTCPulse/internal/services/dataaccess"
	"BTCPulse/internal/services/synthetic"
	"BTCPulse/internal/usecase"
	"BTCPulse/pkg/cache"
	"BTCPulse/pkg/config"
	xhttp "BTCPulse/pkg/http"
	pkgkafka "BTCPulse/pkg/kafka"
	applogger "BTCPulse/pkg/logger"
	"BTCPulse/pkg/metrics"
	"BTCPulse/pkg/server"
)

// ProvideLogger creates the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideGenerator builds the synthetic generator. A zero seed means clock-seeded.
func ProvideGenerator(cfg *config.Config) *synthetic.Generator {
	opts := []synthetic.Option{synthetic.WithParams(synthetic.Params{
		SeedPrice:          cfg.Dashboard.SeedPrice,
		PredictionSeed:     cfg.Dashboard.PredictionSeed,
		VolatilityFraction: cfg.Dashboard.VolatilityFraction,
		CandleInterval:     cfg.Dashboard.CandleInterval,
	})}
	if cfg.Dashboard.Seed != 0 {
		opts = append(opts, synthetic.WithSeed(cfg.Dashboard.Seed))
	}
	return synthetic.New(opts...)
}

// ProvideFacade selects the data source; auto mode probes the backend once here.
func ProvideFacade(cfg *config.Config, gen *synthetic.Generator, m domrepo.Metrics, log *applogger.Logger) *dataaccess.Facade {
	return dataaccess.New(context.Background(), dataaccess.Config{
		Mode:    cfg.API.Mode,
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, gen, m, log)
}

// ProvideCache returns Redis behind an in-process L1 when enabled, otherwise memory only.
// An unreachable Redis degrades to memory with a warning.
func ProvideCache(cfg *config.Config, log *applogger.Logger) cache.Service {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
	)
	if err != nil {
		log.Warn("redis unavailable, using in-memory snapshot store",
			applogger.String("host", cfg.Redis.Host),
			applogger.Int("port", cfg.Redis.Port),
			applogger.Error(err),
		)
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemoryTTL(cfg.Redis.LocalTTL))
}

func ProvideSnapshotStore(c cache.Service, cfg *config.Config) *internalrepo.CacheSnapshotStore {
	return internalrepo.NewCacheSnapshotStore(c, cfg.Redis.TTL)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopics(true),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaPublisher returns nil when there is no producer.
func ProvideKafkaPublisher(producer *pkgkafka.Producer, m domrepo.Metrics, cfg *config.Config) *internalrepo.KafkaPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, m, cfg.Kafka.CandlesTopic, cfg.Kafka.PostsTopic)
}

func ProvideRefreshGate() *usecase.RefreshGate {
	return usecase.NewRefreshGate()
}

// ProvidePriceFeed auto-ticks from the generator unless candles come from Kafka.
func ProvidePriceFeed(
	cfg *config.Config,
	gen *synthetic.Generator,
	gate *usecase.RefreshGate,
	m domrepo.Metrics,
	log *applogger.Logger,
	store *internalrepo.CacheSnapshotStore,
	pub *internalrepo.KafkaPublisher,
) *usecase.PriceFeed {
	sinks := []domrepo.WindowSink{store}
	if pub != nil {
		sinks = append(sinks, pub)
	}
	return usecase.NewPriceFeed(usecase.PriceFeedConfig{
		Symbol:     cfg.Dashboard.Symbol,
		WindowSize: cfg.Dashboard.WindowSize,
		Period:     cfg.Dashboard.PriceRefresh,
		AutoTick:   cfg.Dashboard.Source != config.SourceKafka,
	}, gen, gate, m, log, sinks...)
}

func ProvideSentimentFeed(cfg *config.Config, gen *synthetic.Generator, store *internalrepo.CacheSnapshotStore, log *applogger.Logger) *usecase.SentimentFeed {
	return usecase.NewSentimentFeed(cfg.Dashboard.Symbol, cfg.Dashboard.SentimentRefresh, gen, store, log)
}

func ProvideSocialFeed(
	cfg *config.Config,
	gen *synthetic.Generator,
	pub *internalrepo.KafkaPublisher,
	store *internalrepo.CacheSnapshotStore,
	log *applogger.Logger,
) *usecase.SocialFeed {
	var sink domrepo.PostSink
	if pub != nil {
		sink = pub
	}
	return usecase.NewSocialFeed(cfg.Dashboard.Symbol, cfg.Dashboard.SocialFeedSize, cfg.Dashboard.SocialRefresh, gen, sink, store, log)
}

func ProvideDashboardSnapshot(f *dataaccess.Facade, log *applogger.Logger) *usecase.DashboardSnapshotUseCase {
	return usecase.NewDashboardSnapshotUseCase(f, log)
}

// ProvideStreamHub creates the WebSocket hub and subscribes it to the price feed.
func ProvideStreamHub(cfg *config.Config, log *applogger.Logger, price *usecase.PriceFeed) *api.StreamHub {
	hub := api.NewStreamHub(log, price, cfg.Server.CORSOrigins)
	price.AddSink(hub)
	return hub
}

func ProvideCandleGuard(price *usecase.PriceFeed, m domrepo.Metrics) *mid.CandleGuard {
	return mid.NewCandleGuard(price, m, mid.WithMaxRPS(20))
}

// ProvideKafkaConsumer creates a consumer only when candles are ingested from Kafka.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Dashboard.Source != config.SourceKafka {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerAutoOffsetReset(cfg.Kafka.Consumer.AutoOffsetReset),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TraceHook{}, pkgkafka.LoggingHook{Log: log}))
	return consumer, nil
}

func ProvideKafkaCandlesHandler(cfg *config.Config, guard *mid.CandleGuard, m domrepo.Metrics, log *applogger.Logger) *usecase.KafkaCandlesHandler {
	return usecase.NewKafkaCandlesHandler(cfg.Kafka.IngestTopic, cfg.Dashboard.Symbol, guard, m, log)
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideHandlers collects every HTTP route group.
func ProvideHandlers(
	cfg *config.Config,
	log *applogger.Logger,
	f *dataaccess.Facade,
	store *internalrepo.CacheSnapshotStore,
	price *usecase.PriceFeed,
	sentiment *usecase.SentimentFeed,
	social *usecase.SocialFeed,
	snapshot *usecase.DashboardSnapshotUseCase,
	limiter *ratelimit.Limiter,
	hub *api.StreamHub,
) []xhttp.Handler {
	live := api.NewLiveEchoHandler(log, api.LiveConfig{
		Symbol:       cfg.Dashboard.Symbol,
		Burst:        cfg.Server.InteractionRate.Burst,
		RefillPerSec: cfg.Server.InteractionRate.RefillPerSec,
	}, price, sentiment, social, snapshot, limiter)
	return []xhttp.Handler{
		api.NewDashboardEchoHandler(log, f, store),
		live,
		hub,
	}
}

func ProvideHTTPServer(cfg *config.Config, log *applogger.Logger, handlers []xhttp.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(log, handlers,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp assembles the lifecycle. Diagnostics ship to Kafka when a producer exists.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	price *usecase.PriceFeed,
	sentiment *usecase.SentimentFeed,
	social *usecase.SocialFeed,
	hub *api.StreamHub,
	consumer *pkgkafka.Consumer,
	candles *usecase.KafkaCandlesHandler,
	producer *pkgkafka.Producer,
	c cache.Service,
) *server.App {
	opts := []server.Option{
		server.WithComponents(price, sentiment, social),
		server.WithClosers(hubCloser{hub}, c),
	}
	if consumer != nil {
		opts = append(opts, server.WithConsumer(consumer, candles))
	}
	if producer != nil {
		log.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.DiagnosticsTopic,
			Service:   "btcpulse",
			Publisher: producer,
		})
		opts = append(opts, server.WithClosers(producer))
	}
	return server.New(cfg, log, httpServer, opts...)
}

type hubCloser struct{ hub *api.StreamHub }

func (h hubCloser) Close() error {
	h.hub.Close()
	return nil
}
