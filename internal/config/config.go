package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required variables are enforced by must()
// and missing values cause the program to exit with a fatal log message;
// tunables fall back to sensible defaults.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify access tokens

	HoldTTL       time.Duration // lifetime of a seat hold (HOLD_TTL_SECONDS)
	SweepInterval time.Duration // sweeper wake-up period (SWEEP_INTERVAL_SECONDS)
	CancelLead    time.Duration // minimum lead before show start for cancellation (CANCEL_LEAD_HOURS)
	// ReleaseSeatsOnCancel returns a cancelled booking's seats to the
	// show's inventory.  Off by default: cancelled seats stay sold.
	ReleaseSeatsOnCancel bool
}

// Load reads configuration values from environment variables and returns
// a Config.
func Load() Config {
	return Config{
		Env:                  must("APP_ENV"),
		Port:                 must("APP_PORT"),
		DBUser:               must("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"), // empty allowed
		DBHost:               must("DB_HOST"),
		DBPort:               must("DB_PORT"),
		DBName:               must("DB_NAME"),
		JWTSecret:            must("JWT_SECRET"),
		HoldTTL:              envSeconds("HOLD_TTL_SECONDS", 600),
		SweepInterval:        envSeconds("SWEEP_INTERVAL_SECONDS", 60),
		CancelLead:           time.Duration(envInt("CANCEL_LEAD_HOURS", 2)) * time.Hour,
		ReleaseSeatsOnCancel: envBool("RELEASE_SEATS_ON_CANCEL", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or def when unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}

func envBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
