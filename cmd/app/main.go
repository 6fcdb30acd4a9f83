package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"BTCPulse/internal/di"
	"BTCPulse/pkg/config"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "btcpulse",
		Short: "Bitcoin dashboard data service",
		Long: `BTCPulse serves live candles, sentiment, social posts and predictions for a dashboard,
from a configured backend or from its own synthetic generator.

Examples:
  btcpulse serve --config config/config.yaml
  btcpulse fetch predictions --days-ahead 3
  btcpulse fetch posts --platform Reddit --format json`,
		SilenceUsage: true,
		RunE:         serve,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live feeds and Kafka pipeline",
		RunE:  serve,
	})
	rootCmd.AddCommand(newFetchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
