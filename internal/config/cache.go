package config

import "time"

// CacheConfig tunes the response cache in front of the public seat-status
// endpoint.  The TTL is deliberately tiny: seat maps are polled hard
// during on-sales and a couple of seconds of staleness is acceptable,
// but anything longer would hide freshly taken seats.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string // Redis key namespace
}

// LoadCacheConfig reads the CACHE_* environment variables.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envSeconds("CACHE_TTL_SECONDS", 2),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}
