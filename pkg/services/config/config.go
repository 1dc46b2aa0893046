package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "SPOTSTATS"

// Variant selects the defaults of a run: the interactive one-shot command
// or the scheduled function.
type Variant int

const (
	OneShot Variant = iota
	Scheduled
)

type Config struct {
	AWS       AWSConfig       `mapstructure:"aws"`
	Collector CollectorConfig `mapstructure:"collector"`
	Output    OutputConfig    `mapstructure:"output"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
}

type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

type CollectorConfig struct {
	Concurrent        bool    `mapstructure:"concurrent"`
	Workers           int     `mapstructure:"workers"`
	SkipFailedRegions bool    `mapstructure:"skip_failed_regions"`
	RateLimit         float64 `mapstructure:"rate_limit"`
}

type OutputConfig struct {
	// Path of the local artifact, used by the one-shot variant.
	Path   string `mapstructure:"path"`
	Bucket string `mapstructure:"bucket"`
	Key    string `mapstructure:"key"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper, variant Variant) {
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.region", "us-west-1")
	v.SetDefault("collector.concurrent", variant == Scheduled)
	v.SetDefault("collector.workers", 16)
	v.SetDefault("collector.skip_failed_regions", false)
	v.SetDefault("collector.rate_limit", 0)
	v.SetDefault("output.path", "stats.json")
	v.SetDefault("output.bucket", "cpeccei-public")
	v.SetDefault("output.key", "spot_pricing_stats.json")
	v.SetDefault("history.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("server.addr", ":8080")
}

// New returns a viper instance with defaults for the variant and environment
// binding (SPOTSTATS_COLLECTOR_WORKERS overrides collector.workers).
func New(variant Variant) *viper.Viper {
	v := viper.New()
	setDefaults(v, variant)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path on top of defaults and
// environment.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Collector.Workers <= 0 {
		return nil, fmt.Errorf("collector.workers must be positive, got %d", cfg.Collector.Workers)
	}
	if cfg.Collector.RateLimit < 0 {
		return nil, fmt.Errorf("collector.rate_limit must not be negative, got %v", cfg.Collector.RateLimit)
	}
	return &cfg, nil
}
