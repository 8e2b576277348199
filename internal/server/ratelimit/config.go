package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled configuration allowing perSecond requests
// per client with the given burst on endpoints without their own limits.
func DefaultConfig(perSecond float64, burst int) *Config {
	limit, window := perWindow(perSecond)
	return &Config{
		Enabled:         true,
		DefaultLimit:    limit,
		DefaultWindow:   window,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// perWindow expresses a per-second rate as a whole number of requests per
// window; fractional rates use a minute window
func perWindow(perSecond float64) (int, time.Duration) {
	if perSecond <= 0 {
		return 0, time.Second
	}
	if perSecond == float64(int(perSecond)) {
		return int(perSecond), time.Second
	}
	return int(perSecond * 60), time.Minute
}

// LoadConfig applies environment overrides to base. A nil base starts from
// DefaultConfig(10, 20).
func LoadConfig(base *Config) *Config {
	if base == nil {
		base = DefaultConfig(10, 20)
	}
	cfg := *base

	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)

	if list := getEnvString("RATE_LIMIT_WHITELIST", ""); list != "" {
		cfg.Whitelist = parseIPList(list)
	}
	if list := getEnvString("RATE_LIMIT_BLACKLIST", ""); list != "" {
		cfg.Blacklist = parseIPList(list)
	}
	return &cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Evaluation may call the text advisory service
		{Path: "/evaluate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/fixes", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Translation is local and cheap
		{Path: "/translate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 50},

		// Everything else uses the default limit; health is unlimited (see MatchEndpoint)
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
