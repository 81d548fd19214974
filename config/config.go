package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// WatcherConfig holds the listing watcher configuration.
type WatcherConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TargetURL       string        `yaml:"target_url"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	CardSelector    string        `yaml:"card_selector"`
	PrintMode       string        `yaml:"print_mode"` // "plain" or "color"
	Verbose         bool          `yaml:"verbose"`
	Browser         BrowserConfig `yaml:"browser"`
}

// BrowserConfig defines how the Chrome session is obtained and driven.
type BrowserConfig struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty means a local Chrome is launched.
	RemoteURL          string        `yaml:"remote_url"`
	Stealth            bool          `yaml:"stealth"`
	NavTimeoutSeconds  int           `yaml:"nav_timeout_seconds"`
	NavTimeout         time.Duration `yaml:"-"`
	SettleDelaySeconds int           `yaml:"settle_delay_seconds"`
	SettleDelay        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" (default) or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in defaults and derives duration fields. Load calls it;
// main calls it again after flag overrides.
func (cfg *Config) ApplyDefaults() {
	if cfg.Watcher.IntervalSeconds <= 0 {
		cfg.Watcher.IntervalSeconds = 120
	}
	cfg.Watcher.Interval = time.Duration(cfg.Watcher.IntervalSeconds) * time.Second

	if cfg.Watcher.CardSelector == "" {
		cfg.Watcher.CardSelector = "div.dogs.col-md-12 > span"
	}
	if cfg.Watcher.PrintMode == "" {
		cfg.Watcher.PrintMode = "plain"
	}

	if cfg.Watcher.Browser.NavTimeoutSeconds <= 0 {
		cfg.Watcher.Browser.NavTimeoutSeconds = 30
	}
	cfg.Watcher.Browser.NavTimeout = time.Duration(cfg.Watcher.Browser.NavTimeoutSeconds) * time.Second

	if cfg.Watcher.Browser.SettleDelaySeconds <= 0 {
		cfg.Watcher.Browser.SettleDelaySeconds = 2
	}
	cfg.Watcher.Browser.SettleDelay = time.Duration(cfg.Watcher.Browser.SettleDelaySeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		cfg.Database.DSN = "doggowatch.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
