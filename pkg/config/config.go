package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BTCPulse/pkg/util"
)

// Data-access modes.
const (
	ModeRemote    = "remote"
	ModeSynthetic = "synthetic"
	ModeAuto      = "auto"
)

// Live candle sources.
const (
	SourceSynthetic = "synthetic"
	SourceKafka     = "kafka"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		InteractionRate struct {
			Burst        float64 `yaml:"burst"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"interaction_rate"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	API struct {
		BaseURL string        `yaml:"base_url"`
		Mode    string        `yaml:"mode"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Dashboard struct {
		Symbol             string        `yaml:"symbol"`
		WindowSize         int           `yaml:"window_size"`
		SeedPrice          float64       `yaml:"seed_price"`
		PredictionSeed     float64       `yaml:"prediction_seed"`
		VolatilityFraction float64       `yaml:"volatility_fraction"`
		CandleInterval     time.Duration `yaml:"candle_interval"`
		PriceRefresh       time.Duration `yaml:"price_refresh"`
		SentimentRefresh   time.Duration `yaml:"sentiment_refresh"`
		SocialRefresh      time.Duration `yaml:"social_refresh"`
		SocialFeedSize     int           `yaml:"social_feed_size"`
		Seed               int64         `yaml:"seed"`
		Source             string        `yaml:"source"`
	} `yaml:"dashboard"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Host     string        `yaml:"host"`
		Port     int           `yaml:"port"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix"`
		TTL      time.Duration `yaml:"ttl"`
		// LocalTTL bounds how long the in-process layer serves a key before re-reading Redis.
		LocalTTL     time.Duration `yaml:"local_ttl"`
		PoolSize     int           `yaml:"pool_size"`
		MinIdleConns int           `yaml:"min_idle_conns"`
		PoolTimeout  time.Duration `yaml:"pool_timeout"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled          bool     `yaml:"enabled"`
		Brokers          []string `yaml:"brokers"`
		CandlesTopic     string   `yaml:"candles_topic"`
		PostsTopic       string   `yaml:"posts_topic"`
		IngestTopic      string   `yaml:"ingest_topic"`
		DiagnosticsTopic string   `yaml:"diagnostics_topic"`
		RequiredAcks     int      `yaml:"required_acks"`
		Compression      string   `yaml:"compression"`
		Producer         struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID         string        `yaml:"group_id"`
			AutoOffsetReset string        `yaml:"auto_offset_reset"`
			Workers         int           `yaml:"workers"`
			BufferSize      int           `yaml:"buffer_size"`
			RetryMax        int           `yaml:"retry_max"`
			BackoffMin      time.Duration `yaml:"backoff_min"`
			BackoffMax      time.Duration `yaml:"backoff_max"`
			DLQTopic        string        `yaml:"dlq_topic"`
			MinBytes        int           `yaml:"min_bytes"`
			MaxBytes        int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// Default returns a complete configuration that runs with no external services.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Server.CORSOrigins = []string{"*"}
	c.Server.InteractionRate.Burst = 20
	c.Server.InteractionRate.RefillPerSec = 10

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"

	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.Output = "stdout"

	c.API.BaseURL = "http://localhost:8000/api"
	c.API.Mode = ModeAuto
	c.API.Timeout = 10 * time.Second

	c.Dashboard.Symbol = "BTC"
	c.Dashboard.WindowSize = 100
	c.Dashboard.SeedPrice = 98000
	c.Dashboard.PredictionSeed = 97000
	c.Dashboard.VolatilityFraction = 0.002
	c.Dashboard.CandleInterval = 15 * time.Minute
	c.Dashboard.PriceRefresh = 15 * time.Second
	c.Dashboard.SentimentRefresh = 5 * time.Second
	c.Dashboard.SocialRefresh = 10 * time.Second
	c.Dashboard.SocialFeedSize = 15
	c.Dashboard.Source = SourceSynthetic

	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
	c.Redis.Prefix = "btcpulse"
	c.Redis.TTL = 10 * time.Minute
	c.Redis.LocalTTL = 5 * time.Second
	c.Redis.PoolSize = 10
	c.Redis.MinIdleConns = 2
	c.Redis.PoolTimeout = 5 * time.Second

	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.CandlesTopic = "btcpulse.candles"
	c.Kafka.PostsTopic = "btcpulse.posts"
	c.Kafka.IngestTopic = "btcpulse.candles.ingest"
	c.Kafka.DiagnosticsTopic = "btcpulse.diagnostics"
	c.Kafka.RequiredAcks = 1
	c.Kafka.Compression = "snappy"
	c.Kafka.Producer.MaxAttempts = 3
	c.Kafka.Producer.Linger = 50 * time.Millisecond
	c.Kafka.Producer.BatchSize = 100
	c.Kafka.Producer.BatchBytes = 1 << 20
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.Kafka.Producer.ReadTimeout = 10 * time.Second
	c.Kafka.Producer.Async = true
	c.Kafka.Consumer.GroupID = "btcpulse-ingest"
	c.Kafka.Consumer.AutoOffsetReset = "latest"
	c.Kafka.Consumer.Workers = 1
	c.Kafka.Consumer.BufferSize = 256
	c.Kafka.Consumer.RetryMax = 3
	c.Kafka.Consumer.BackoffMin = 100 * time.Millisecond
	c.Kafka.Consumer.BackoffMax = 2 * time.Second
	c.Kafka.Consumer.DLQTopic = "btcpulse.candles.dlq"
	c.Kafka.Consumer.MinBytes = 1
	c.Kafka.Consumer.MaxBytes = 10 << 20

	return c
}

// Load reads a YAML file on top of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DASHBOARD_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DASHBOARD_API_MODE"); v != "" {
		c.API.Mode = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		c.Dashboard.Symbol = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, err := splitHostPort(v)
		if err != nil {
			return fmt.Errorf("REDIS_ADDR: %w", err)
		}
		c.Redis.Host, c.Redis.Port = host, port
		c.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.Redis.DB = util.ParseIntDefault(v, c.Redis.DB)
	}
	return nil
}

func splitHostPort(addr string) (string, int, error) {
	i := strings.LastIndex(addr, ":")
	if i <= 0 || i == len(addr)-1 {
		return "", 0, fmt.Errorf("expected host:port, got %q", addr)
	}
	port, err := strconv.Atoi(addr[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return addr[:i], port, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	switch c.API.Mode {
	case ModeRemote, ModeSynthetic, ModeAuto:
	default:
		return fmt.Errorf("api.mode must be 'remote', 'synthetic' or 'auto', got '%s'", c.API.Mode)
	}
	if c.API.Mode != ModeSynthetic && c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required for mode '%s'", c.API.Mode)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Dashboard.Symbol == "" {
		return fmt.Errorf("dashboard.symbol is required")
	}
	if c.Dashboard.WindowSize <= 0 {
		return fmt.Errorf("dashboard.window_size must be positive")
	}
	if c.Dashboard.SocialFeedSize <= 0 {
		return fmt.Errorf("dashboard.social_feed_size must be positive")
	}
	if c.Dashboard.PriceRefresh <= 0 || c.Dashboard.SentimentRefresh <= 0 || c.Dashboard.SocialRefresh <= 0 {
		return fmt.Errorf("dashboard refresh periods must be positive")
	}
	if c.Dashboard.CandleInterval <= 0 {
		return fmt.Errorf("dashboard.candle_interval must be positive")
	}
	switch c.Dashboard.Source {
	case SourceSynthetic:
	case SourceKafka:
		if !c.Kafka.Enabled {
			return fmt.Errorf("dashboard.source 'kafka' requires kafka.enabled")
		}
	default:
		return fmt.Errorf("dashboard.source must be 'synthetic' or 'kafka', got '%s'", c.Dashboard.Source)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
