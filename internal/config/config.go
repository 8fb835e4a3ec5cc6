// Package config provides configuration for the context pipeline. All
// knobs are simple named values with documented defaults; configuration
// files only override them.
package config

import (
	"time"

	"github.com/openock/contexture/internal/cache"
)

// Config holds every tunable the pipeline consumes.
type Config struct {
	// LogLevel controls logging verbosity.
	LogLevel string `yaml:"logLevel"`

	// MaxTokens is the token budget for record summarization.
	MaxTokens int `yaml:"maxTokens"`

	// TargetContextChars bounds the final assembled context string,
	// approximating the token budget at ~4 characters per token.
	TargetContextChars int `yaml:"targetContextChars"`

	// UseTimeService enables resolving "now" from an external time
	// service instead of the system clock.
	UseTimeService bool `yaml:"useTimeService"`

	// Timezone is the timezone name sent to the time service.
	Timezone string `yaml:"timezone"`

	// TTLs overrides per-namespace cache lifetimes, in seconds.
	TTLs map[string]int `yaml:"ttls"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		MaxTokens:          2000,
		TargetContextChars: 8000,
		UseTimeService:     false,
		Timezone:           "America/Chicago",
	}
}

// CacheTTLs merges configured TTL overrides over the cache defaults.
func (c *Config) CacheTTLs() map[cache.Namespace]time.Duration {
	ttls := make(map[cache.Namespace]time.Duration, len(cache.DefaultTTLs))
	for ns, ttl := range cache.DefaultTTLs {
		ttls[ns] = ttl
	}
	for ns, seconds := range c.TTLs {
		if seconds > 0 {
			ttls[cache.Namespace(ns)] = time.Duration(seconds) * time.Second
		}
	}
	return ttls
}
