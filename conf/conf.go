package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grievance/logger"
)

const (
	TransportHTTP = "http"
	TransportSQS  = "sqs"
)

// DefaultEndpoint is the publish endpoint the portal was first deployed with.
const DefaultEndpoint = "https://m5z5ph9dud.execute-api.us-east-2.amazonaws.com/Prod/publish"

type Config struct {
	HTTP    HTTP    `toml:"http"`
	Publish Publish `toml:"publish"`
	Log     Log     `toml:"log"`
	Stats   Stats   `toml:"stats"`
}

type HTTP struct {
	Address        string   `toml:"address"`
	AllowedOrigins []string `toml:"allowed_origins"`
	SessionIdle    string   `toml:"session_idle"`
}

type Publish struct {
	Transport string `toml:"transport"`
	Endpoint  string `toml:"endpoint"`
	QueueURL  string `toml:"queue_url"`
	Region    string `toml:"region"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Stats struct {
	Interval string `toml:"interval"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
			SessionIdle:    "24h",
		},
		Publish: Publish{
			Transport: TransportHTTP,
			Endpoint:  DefaultEndpoint,
			Region:    "us-east-2",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Stats: Stats{
			Interval: "1m",
		},
	}
}

// Load layers configuration: defaults, then the TOML file at path (skipped
// when path is empty), then variables from ./.env and the process
// environment. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		origins := cfg.HTTP.AllowedOrigins
		cfg.HTTP.AllowedOrigins = nil
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if cfg.HTTP.AllowedOrigins == nil {
			cfg.HTTP.AllowedOrigins = origins
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.HTTP.Address, "GRIEVANCE_HTTP_ADDR")
	if list := parseList("GRIEVANCE_ALLOWED_ORIGINS"); len(list) > 0 {
		cfg.HTTP.AllowedOrigins = list
	}
	setFromEnv(&cfg.HTTP.SessionIdle, "GRIEVANCE_SESSION_IDLE")
	setFromEnv(&cfg.Publish.Transport, "GRIEVANCE_TRANSPORT")
	setFromEnv(&cfg.Publish.Endpoint, "GRIEVANCE_ENDPOINT")
	setFromEnv(&cfg.Publish.QueueURL, "GRIEVANCE_QUEUE_URL")
	setFromEnv(&cfg.Publish.Region, "AWS_REGION")
	setFromEnv(&cfg.Log.Level, "GRIEVANCE_LOG_LEVEL")
	setFromEnv(&cfg.Log.Format, "GRIEVANCE_LOG_FORMAT")
	setFromEnv(&cfg.Stats.Interval, "GRIEVANCE_STATS_INTERVAL")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func parseList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func (c Config) Validate() error {
	var errs []error

	switch c.Publish.Transport {
	case TransportHTTP:
		u, err := url.ParseRequestURI(c.Publish.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("publish.endpoint must be an absolute http(s) url, got %q", c.Publish.Endpoint))
		}
	case TransportSQS:
		if c.Publish.QueueURL == "" {
			errs = append(errs, errors.New("publish.queue_url is required for the sqs transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown publish.transport %q", c.Publish.Transport))
	}

	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address must not be empty"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	if d, err := time.ParseDuration(c.HTTP.SessionIdle); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("http.session_idle must be a positive duration, got %q", c.HTTP.SessionIdle))
	}
	if d, err := time.ParseDuration(c.Stats.Interval); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("stats.interval must be a positive duration, got %q", c.Stats.Interval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// StatsInterval returns the parsed stats interval. Call after Validate.
func (c Config) StatsInterval() time.Duration {
	d, err := time.ParseDuration(c.Stats.Interval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// SessionIdle returns how long an unused portal session is kept.
func (c Config) SessionIdle() time.Duration {
	d, err := time.ParseDuration(c.HTTP.SessionIdle)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
