package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "fridgewatch/backend/libs/config"
)

const defaultPort = "8080"

// Config defines fridge-monitor configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"FRIDGE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN         string `yaml:"dsn" env:"FRIDGE_POSTGRES_DSN"`
		AutoMigrate bool   `yaml:"autoMigrate" env:"FRIDGE_DB_AUTO_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" env:"FRIDGE_REDIS_ADDR"`
		Password   string `yaml:"password" env:"FRIDGE_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"FRIDGE_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"FRIDGE_REDIS_TTL"`
	} `yaml:"redis"`
	Notifier struct {
		WebhookURL     string `yaml:"webhookUrl" env:"SLACK_WEBHOOK_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"FRIDGE_NOTIFIER_TIMEOUT"`
	} `yaml:"notifier"`
	Thresholds struct {
		Temperature float64 `yaml:"temperature" env:"FRIDGE_THRESHOLD_TEMPERATURE"`
		Humidity    float64 `yaml:"humidity" env:"FRIDGE_THRESHOLD_HUMIDITY"`
	} `yaml:"thresholds"`
	Scheduler struct {
		IntervalSeconds int  `yaml:"intervalSeconds" env:"FRIDGE_SCHEDULE_INTERVAL"`
		RunOnStart      bool `yaml:"runOnStart" env:"FRIDGE_SCHEDULE_RUN_ON_START"`
	} `yaml:"scheduler"`
	WebSocket struct {
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"FRIDGE_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
}

// Load reads defaults, the optional YAML file and env overrides, then validates.
func Load() (*Config, error) {
	cfg := Default()

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Notifier.TimeoutSeconds = 10
	cfg.Thresholds.Temperature = 8
	cfg.Thresholds.Humidity = 60.0
	cfg.Scheduler.IntervalSeconds = 60
	cfg.WebSocket.WriteTimeoutSeconds = 10
	return cfg
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database dsn required")
	}
	if c.Scheduler.IntervalSeconds <= 0 {
		return fmt.Errorf("config: scheduler interval must be positive, got %d", c.Scheduler.IntervalSeconds)
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ScheduleInterval is both the evaluation period and the window it scans.
func (c *Config) ScheduleInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalSeconds) * time.Second
}

// NotifierTimeout returns the webhook client timeout.
func (c *Config) NotifierTimeout() time.Duration {
	if c.Notifier.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Notifier.TimeoutSeconds) * time.Second
}

// RedisEnabled reports whether the latest reading cache is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// RedisTTL returns the cache entry lifetime; zero means no expiry.
func (c *Config) RedisTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// WSWriteTimeout returns the websocket write deadline.
func (c *Config) WSWriteTimeout() time.Duration {
	if c.WebSocket.WriteTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WebSocket.WriteTimeoutSeconds) * time.Second
}
