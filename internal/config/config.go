package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/flightwatch/internal/model"
)

// Defaults match the hosted OpenSky API and a one-minute polling cadence.
const (
	DefaultBaseURL      = "https://opensky-network.org/api"
	DefaultAuthURL      = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"
	DefaultInterval     = 60 * time.Second
	DefaultFetchTimeout = 30 * time.Second
	DefaultBucket       = "flightwatch-data"
	DefaultPrefix       = "raw"
)

// Config holds all runtime configuration for a flightwatch run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"
	LogLevel  string

	// Scheduler
	Interval   time.Duration
	RunOnStart bool

	// Data fetcher
	OpenSkyBaseURL      string
	OpenSkyAuthURL      string
	OpenSkyClientID     string
	OpenSkyClientSecret string
	FetchTimeout        time.Duration
	Region              model.Region

	// Object storage
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOPrefix    string
	MinIOUseSSL    bool

	// Observability
	SlackWebhookURL string
	MetricsAddr     string
}

// yamlConfig is the on-disk YAML structure. Only scheduling and region
// settings live in the file; credentials stay in the environment.
type yamlConfig struct {
	IntervalSeconds     *int          `yaml:"interval_seconds"`
	FetchTimeoutSeconds *int          `yaml:"fetch_timeout_seconds"`
	RunOnStart          *bool         `yaml:"run_on_start"`
	BoundingBox         *model.Region `yaml:"bounding_box"`
}

// FromEnv builds a Config from environment variables, applying defaults for
// everything optional. Numeric and boolean variables fail loudly when
// malformed rather than silently falling back.
func FromEnv() (*Config, error) {
	c := &Config{
		DSN:                 os.Getenv("DATABASE_URL"),
		LogFormat:           envOr("LOG_FORMAT", "text"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		OpenSkyBaseURL:      envOr("OPENSKY_BASE_URL", DefaultBaseURL),
		OpenSkyAuthURL:      envOr("OPENSKY_AUTH_URL", DefaultAuthURL),
		OpenSkyClientID:     os.Getenv("OPENSKY_CLIENT_ID"),
		OpenSkyClientSecret: os.Getenv("OPENSKY_CLIENT_SECRET"),
		MinIOEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:         envOr("MINIO_BUCKET", DefaultBucket),
		MinIOPrefix:         envOr("MINIO_PREFIX", DefaultPrefix),
		SlackWebhookURL:     os.Getenv("SLACK_WEBHOOK_URL"),
		MetricsAddr:         os.Getenv("METRICS_ADDR"),
	}

	var err error
	if c.Interval, err = envSeconds("SCHEDULER_INTERVAL_SECONDS", DefaultInterval); err != nil {
		return nil, err
	}
	if c.FetchTimeout, err = envSeconds("OPENSKY_TIMEOUT_SECONDS", DefaultFetchTimeout); err != nil {
		return nil, err
	}
	if c.RunOnStart, err = envBool("SCHEDULER_RUN_ON_START", true); err != nil {
		return nil, err
	}
	if c.MinIOUseSSL, err = envBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	// Default region is the Swiss airspace box from the OpenSky docs.
	c.Region = model.Region{LatMin: 45.8389, LonMin: 5.9962, LatMax: 47.8229, LonMax: 10.5226}
	if c.Region.LatMin, err = envFloat("OPENSKY_BBOX_LAMIN", c.Region.LatMin); err != nil {
		return nil, err
	}
	if c.Region.LonMin, err = envFloat("OPENSKY_BBOX_LOMIN", c.Region.LonMin); err != nil {
		return nil, err
	}
	if c.Region.LatMax, err = envFloat("OPENSKY_BBOX_LAMAX", c.Region.LatMax); err != nil {
		return nil, err
	}
	if c.Region.LonMax, err = envFloat("OPENSKY_BBOX_LOMAX", c.Region.LonMax); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// File values override environment values for the fields present.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if yc.IntervalSeconds != nil {
		c.Interval = time.Duration(*yc.IntervalSeconds) * time.Second
	}
	if yc.FetchTimeoutSeconds != nil {
		c.FetchTimeout = time.Duration(*yc.FetchTimeoutSeconds) * time.Second
	}
	if yc.RunOnStart != nil {
		c.RunOnStart = *yc.RunOnStart
	}
	if yc.BoundingBox != nil {
		c.Region = *yc.BoundingBox
	}
	return nil
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", c.Interval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if err := c.Region.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidateWithDSN additionally requires database and object-store settings,
// needed by commands that actually run an ingestion.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	if c.MinIOEndpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if c.MinIOAccessKey == "" || c.MinIOSecretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envSeconds(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: expected integer seconds, got %q", key, v)
	}
	return time.Duration(n) * time.Second, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: expected boolean, got %q", key, v)
	}
	return b, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: expected float, got %q", key, v)
	}
	return f, nil
}
