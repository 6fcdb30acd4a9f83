//go:build wireinject
// +build wireinject

package di

import (
	"BTCPulse/pkg/config"
	"BTCPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Data
		ProvideGenerator,
		ProvideFacade,
		ProvideCache,
		ProvideSnapshotStore,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideKafkaPublisher,
		ProvideKafkaConsumer,

		// Feeds and use cases
		ProvideRefreshGate,
		ProvidePriceFeed,
		ProvideSentimentFeed,
		ProvideSocialFeed,
		ProvideDashboardSnapshot,
		ProvideCandleGuard,
		ProvideKafkaCandlesHandler,

		// Transport
		ProvideLimiter,
		ProvideStreamHub,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
