package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Indexer definitions and background jobs
	IndexerFile       string        // path to indexers.yaml
	ReloadInterval    time.Duration // interval to check indexers.yaml for changes (default: 5m)
	GCInterval        time.Duration // interval to run garbage collection (default: 24h)
	GCThreshold       time.Duration // how long a removed indexer is kept before deletion (default: 7d)
	StateSyncInterval time.Duration // interval to persist status and sessions to Redis (default: 1m)
	RSSInterval       time.Duration // interval to refresh the latest releases feed (0 = disabled)

	// Search
	SearchTimeout      time.Duration // whole search deadline
	MaxConcurrency     int           // indexers queried at once
	MaxRequests        int           // requests per indexer per search
	RequestTimeout     time.Duration // single HTTP request to an indexer
	RequestRetries     int           // extra attempts on 429/503
	UserAgent          string
	MinRequestInterval time.Duration // default spacing between requests to one indexer
	SessionTTL         time.Duration // lifetime of cookies stored without an expiry
	FactTTL            time.Duration // lifetime of derived account facts (VIP class...)

	// Backoff curves
	OutageBase          time.Duration
	OutageMax           time.Duration
	OutageDegradedAfter int
	OutageDisabledAfter int
	AuthBase            time.Duration
	AuthMax             time.Duration
	AuthDegradedAfter   int
	AuthDisabledAfter   int

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// API rate limit, per client IP
	RateLimitBurst     int
	RateLimitPerMinute int
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SIFT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SIFT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SIFT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SIFT_PRETTY_LOG", true),

		// Indexer definitions
		IndexerFile:       requireEnv("SIFT_INDEXER_FILE"),
		ReloadInterval:    mustDuration("SIFT_RELOAD_INTERVAL", 5*time.Minute),
		GCInterval:        mustDuration("SIFT_GC_INTERVAL", 24*time.Hour),
		GCThreshold:       mustDuration("SIFT_GC_THRESHOLD", 7*24*time.Hour),
		StateSyncInterval: mustDuration("SIFT_STATE_SYNC_INTERVAL", time.Minute),
		RSSInterval:       mustDuration("SIFT_RSS_INTERVAL", 15*time.Minute),

		// Search
		SearchTimeout:      mustDuration("SIFT_SEARCH_TIMEOUT", 30*time.Second),
		MaxConcurrency:     getenvInt("SIFT_MAX_CONCURRENCY", 8),
		MaxRequests:        getenvInt("SIFT_MAX_REQUESTS_PER_INDEXER", 5),
		RequestTimeout:     mustDuration("SIFT_REQUEST_TIMEOUT", 20*time.Second),
		RequestRetries:     getenvInt("SIFT_REQUEST_RETRIES", 1),
		UserAgent:          getenv("SIFT_USER_AGENT", ""),
		MinRequestInterval: mustDuration("SIFT_MIN_REQUEST_INTERVAL", 2*time.Second),
		SessionTTL:         mustDuration("SIFT_SESSION_TTL", 24*time.Hour),
		FactTTL:            mustDuration("SIFT_FACT_TTL", time.Hour),

		// Backoff
		OutageBase:          mustDuration("SIFT_BACKOFF_BASE", time.Minute),
		OutageMax:           mustDuration("SIFT_BACKOFF_MAX", 6*time.Hour),
		OutageDegradedAfter: getenvInt("SIFT_BACKOFF_DEGRADED_AFTER", 2),
		OutageDisabledAfter: getenvInt("SIFT_BACKOFF_DISABLED_AFTER", 5),
		AuthBase:            mustDuration("SIFT_AUTH_BACKOFF_BASE", 30*time.Second),
		AuthMax:             mustDuration("SIFT_AUTH_BACKOFF_MAX", 30*time.Minute),
		AuthDegradedAfter:   getenvInt("SIFT_AUTH_BACKOFF_DEGRADED_AFTER", 2),
		AuthDisabledAfter:   getenvInt("SIFT_AUTH_BACKOFF_DISABLED_AFTER", 8),

		// Redis settings
		RedisAddr:             requireEnv("SIFT_REDIS_ADDR"),
		RedisUser:             getenv("SIFT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SIFT_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SIFT_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("SIFT_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SIFT_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("SIFT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SIFT_TRUST_PROXY", false),

		RateLimitBurst:     getenvInt("SIFT_RATE_LIMIT_BURST", 20),
		RateLimitPerMinute: getenvInt("SIFT_RATE_LIMIT_PER_MINUTE", 60),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SIFT_REDIS_PASSWORD is required when SIFT_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
