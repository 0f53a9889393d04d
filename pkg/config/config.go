// Package config carries the tunables of the query engine's physical
// operators. Values can come from the environment (QUELL_ prefix) or from
// the documented defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultFixedSideSizeEstimate is the assumed result size of a
	// transitive path with a fixed endpoint. Usually an overestimate, but
	// it keeps the planner from joining large intermediate results first.
	DefaultFixedSideSizeEstimate = 1000

	// DefaultTransitiveBlowupFactor is the assumed blowup of a transitive
	// hull over two free variables relative to its edge relation.
	DefaultTransitiveBlowupFactor = 10000

	// DefaultMemoryLimitBytes bounds the tracked allocations of a single
	// query evaluation.
	DefaultMemoryLimitBytes = 1 << 30

	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
)

type Config struct {
	FixedSideSizeEstimate  uint64 `mapstructure:"fixed_side_size_estimate"`
	TransitiveBlowupFactor uint64 `mapstructure:"transitive_blowup_factor"`
	MemoryLimitBytes       int64  `mapstructure:"memory_limit_bytes"`
	LogFormat              string `mapstructure:"log_format"`
	LogLevel               string `mapstructure:"log_level"`
}

func Default() Config {
	return Config{
		FixedSideSizeEstimate:  DefaultFixedSideSizeEstimate,
		TransitiveBlowupFactor: DefaultTransitiveBlowupFactor,
		MemoryLimitBytes:       DefaultMemoryLimitBytes,
		LogFormat:              DefaultLogFormat,
		LogLevel:               DefaultLogLevel,
	}
}

// FromEnv loads the configuration, letting QUELL_* environment variables
// override the defaults.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("fixed_side_size_estimate", DefaultFixedSideSizeEstimate)
	v.SetDefault("transitive_blowup_factor", DefaultTransitiveBlowupFactor)
	v.SetDefault("memory_limit_bytes", DefaultMemoryLimitBytes)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("log_level", DefaultLogLevel)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.FixedSideSizeEstimate == 0 {
		return Config{}, fmt.Errorf("config: fixed_side_size_estimate must be positive")
	}
	if cfg.TransitiveBlowupFactor == 0 {
		return Config{}, fmt.Errorf("config: transitive_blowup_factor must be positive")
	}
	if cfg.MemoryLimitBytes < 0 {
		return Config{}, fmt.Errorf("config: memory_limit_bytes must not be negative")
	}

	return cfg, nil
}
