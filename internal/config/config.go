package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/groupdata/internal/catalog"
)

type Config struct {
	// Catalog
	APIName      string
	CallbackMode string // ignore, type or callback
	OutputFile   string // empty writes to stdout

	// Fetching
	FetchTimeout       time.Duration
	MaxConcurrentFetch int
	MaxBodyBytes       int64

	// HTTP service
	Port     string
	APIKey   string
	MaxInput int64

	Verbose bool
}

func Load() Config {
	cfg := Config{
		APIName:      envOr("GROUPDATA_API_NAME", catalog.DefaultName),
		CallbackMode: envOr("GROUPDATA_CALLBACK_MODE", "callback"),
		OutputFile:   os.Getenv("GROUPDATA_OUTPUT_FILE"),

		FetchTimeout:       envDuration("GROUPDATA_FETCH_TIMEOUT", 30*time.Second),
		MaxConcurrentFetch: envInt("GROUPDATA_MAX_CONCURRENT_FETCH", 8),
		MaxBodyBytes:       envInt64("GROUPDATA_MAX_BODY_BYTES", 20<<20), // 20MB

		Port:     envOr("PORT", "8090"),
		APIKey:   os.Getenv("GROUPDATA_API_KEY"),
		MaxInput: envInt64("GROUPDATA_MAX_INPUT_BYTES", 5<<20), // 5MB

		Verbose: envBool("GROUPDATA_VERBOSE", false),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 8
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 20 << 20
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 5 << 20
	}

	return cfg
}

// Policy returns the parsed callback mode.
func (c Config) Policy() (catalog.CallbackPolicy, error) {
	return catalog.ParseCallbackPolicy(c.CallbackMode)
}

func (c Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.MaxConcurrentFetch <= 0 {
		return fmt.Errorf("max concurrent fetch must be positive, got %d", c.MaxConcurrentFetch)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
