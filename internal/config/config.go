package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds the configuration for the journal service.
// Environment variables are parsed with the CHILLPILL_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"5000"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/chillpill.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	MongoURI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"chillpill"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"log"`

	// Remote sentiment scorer
	SentimentURL            string `envconfig:"SENTIMENT_URL" default:"http://text-processing.com/api/sentiment/"`
	SentimentTimeoutSeconds int    `envconfig:"SENTIMENT_TIMEOUT_SECONDS" default:"10"`
	BreakerFailures         uint32 `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerCooldownSeconds  int    `envconfig:"BREAKER_COOLDOWN_SECONDS" default:"30"`

	// Mood analytics
	RankingSize  int `envconfig:"RANKING_SIZE" default:"3"`
	RecentWindow int `envconfig:"RECENT_WINDOW" default:"7"`

	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"10"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults normalises DBDriver and checks that the chosen backend is configured.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = DriverSQLite
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = filepath.Join("data", "chillpill.db")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("DB_DRIVER=mongo requires MONGO_URI")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.SentimentTimeoutSeconds <= 0 {
		return fmt.Errorf("SENTIMENT_TIMEOUT_SECONDS must be positive, got %d", c.SentimentTimeoutSeconds)
	}
	if c.RankingSize <= 0 || c.RecentWindow <= 0 {
		return fmt.Errorf("RANKING_SIZE and RECENT_WINDOW must be positive")
	}
	return nil
}

// New loads an optional .env file and then parses CHILLPILL_* variables.
// Example: CHILLPILL_DB_DRIVER=postgres, CHILLPILL_HTTP_PORT=8080
func New() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CHILLPILL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("sentiment_url", cfg.SentimentURL).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates an in-memory configuration for tests.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  5000,
		DBDriver:                  DriverMemory,
		MongoDatabase:             "chillpill",
		MongoCollection:           "log",
		SentimentURL:              "http://127.0.0.1:0/api/sentiment/",
		SentimentTimeoutSeconds:   10,
		BreakerFailures:           5,
		BreakerCooldownSeconds:    30,
		RankingSize:               3,
		RecentWindow:              7,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   5,
		LogLevel:                  "debug",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.SentimentTimeoutSeconds) * time.Second
}

func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownSeconds) * time.Second
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}
