package config

import "time"

// RateLimitConfig tunes the per-caller request limiter applied to the
// hold and confirm endpoints.  Window counts requests in fixed windows;
// a caller exceeding Limit requests per Window is rejected with 429
// until the window rolls over.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // allowed requests per window per key
	Window  time.Duration // window length
	Prefix  string        // Redis key namespace
}

// LoadRateLimitConfig reads the RATE_LIMIT_* environment variables,
// using defaults generous enough not to bother a human picking seats.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Limit:   envInt("RATE_LIMIT_LIMIT", 30),
		Window:  envSeconds("RATE_LIMIT_WINDOW_SECONDS", 60),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
}
