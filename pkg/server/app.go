package server

import (
	"context"
	"errors"
	"fmt"

	"BTCPulse/pkg/config"
	xhttp "BTCPulse/pkg/http"
	pkgkafka "BTCPulse/pkg/kafka"
	applogger "BTCPulse/pkg/logger"
)

// Component is a long-running part started before the HTTP server and stopped after it.
type Component interface {
	Start(ctx context.Context)
	Stop()
}

// Closer releases an infrastructure client on shutdown.
type Closer interface {
	Close() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	components []Component
	consumer   *pkgkafka.Consumer
	handlers   []pkgkafka.MessageHandler
	closers    []Closer
}

// Option customises App.
type Option func(*App)

// WithComponents adds feeds or other background components.
func WithComponents(cs ...Component) Option {
	return func(a *App) {
		for _, c := range cs {
			if c != nil {
				a.components = append(a.components, c)
			}
		}
	}
}

// WithConsumer attaches a Kafka consumer and the handlers to register on it.
func WithConsumer(c *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = c
		a.handlers = handlers
	}
}

// WithClosers adds clients closed last, in order.
func WithClosers(cs ...Closer) Option {
	return func(a *App) {
		for _, c := range cs {
			if c != nil {
				a.closers = append(a.closers, c)
			}
		}
	}
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, httpServer *xhttp.Server, opts ...Option) *App {
	a := &App{cfg: cfg, log: log, httpServer: httpServer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts everything and blocks until ctx is cancelled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	for _, c := range a.components {
		c.Start(ctx)
	}

	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
		}
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start failed", applogger.Error(err))
			_ = a.shutdown()
			return fmt.Errorf("start consumer: %w", err)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		_ = a.shutdown()
		return fmt.Errorf("start http server: %w", err)
	}

	a.log.Info("btcpulse running",
		applogger.String("env", a.cfg.Environment),
		applogger.String("symbol", a.cfg.Dashboard.Symbol),
		applogger.String("source", a.cfg.Dashboard.Source),
		applogger.Int("port", a.cfg.Server.Port),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown drains the consumer before stopping the feeds it writes into, then closes transports.
func (a *App) shutdown() error {
	var errs []error

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for i := len(a.components) - 1; i >= 0; i-- {
		a.components[i].Stop()
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.log.RemoveCollector()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
