package app

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultInput         = "-"
	DefaultStatsInterval = 30 * time.Second
	DefaultMetricsPort   = 9090
	DefaultRedisChannel  = "remoteid"
	DefaultRedisPoolSize = 10
	DefaultRedisHistory  = 1000
)

// Config holds the receive pipeline configuration.
type Config struct {
	// Input is a file of "[source] hex" lines, "-" for stdin.
	Input         string        `yaml:"input"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	Verbose       bool          `yaml:"verbose"`

	Log     LogConfig     `yaml:"log"`
	Records RecordConfig  `yaml:"records"`
	Monitor MonitorConfig `yaml:"monitor"`
	Redis   RedisConfig   `yaml:"redis"`
}

// LogConfig selects the diagnostic log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RecordConfig controls where decoded record lines go. An empty Dir
// disables the rotated files.
type RecordConfig struct {
	Dir     string `yaml:"dir"`
	UTC     bool   `yaml:"utc"`
	Stdout  bool   `yaml:"stdout"`
	MaxDays int    `yaml:"max_days"`
}

// MonitorConfig enables the Prometheus endpoint.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	MetricsPort int  `yaml:"metrics_port"`
}

// RedisConfig enables publishing when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Channel  string `yaml:"channel"`
	History  int64  `yaml:"history"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Input:         DefaultInput,
		StatsInterval: DefaultStatsInterval,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Records: RecordConfig{
			Dir:    "./logs",
			UTC:    true,
			Stdout: true,
		},
		Monitor: MonitorConfig{
			MetricsPort: DefaultMetricsPort,
		},
		Redis: RedisConfig{
			PoolSize: DefaultRedisPoolSize,
			Channel:  DefaultRedisChannel,
			History:  DefaultRedisHistory,
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks values a bad file or flag could produce.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input must not be empty")
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive, got %s", c.StatsInterval)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Records.MaxDays < 0 {
		return fmt.Errorf("records max_days must not be negative")
	}
	if c.Monitor.Enabled && (c.Monitor.MetricsPort <= 0 || c.Monitor.MetricsPort > 65535) {
		return fmt.Errorf("invalid metrics port %d", c.Monitor.MetricsPort)
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		return fmt.Errorf("redis channel must be set when redis is enabled")
	}
	return nil
}
