package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, must cover a metadata fetch

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "memory" | "redis" | "postgres"

	// APITokens maps a bearer token to the user id it authenticates.
	APITokens map[string]string

	CORSOrigins  []string // allowed browser origins, "*" for any
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs/ranges
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Outbound metadata fetches
	FetchTimeout  time.Duration
	FetchMaxBytes int64
	UserAgent     string

	// Remote summary fallback (r.jina.ai compatible)
	SummaryEnabled  bool
	SummaryEndpoint string
	SummaryTimeout  time.Duration

	// Token bucket on routes that trigger outbound fetches
	MetadataRateBurst  int
	MetadataRatePerMin int

	ImportFile     string        // seed YAML (optional, empty = import disabled)
	ImportInterval time.Duration // 0 = only at start and on demand

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

	// Postgres
	PostgresDSN             string
	PostgresMaxConns        int
	PostgresMinConns        int
	PostgresMaxConnLifetime time.Duration
	PostgresAutoMigrate     bool
}

// Load reads the configuration from the environment, after merging an
// optional .env file. Invalid or missing required values panic.
func Load() *Config {
	// Missing .env is fine: real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BOOKMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BOOKMARK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BOOKMARK_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("BOOKMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKMARK_PRETTY_LOG", false),

		Store: strings.ToLower(getenv("BOOKMARK_STORE", StoreMemory)),

		// Auth and access restrictions
		APITokens:    parseTokens(requireEnv("BOOKMARK_API_TOKENS")),
		CORSOrigins:  splitAndTrim(getenv("BOOKMARK_CORS_ORIGINS", "")),
		AllowedCIDRS: splitAndTrim(getenv("BOOKMARK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BOOKMARK_TRUST_PROXY", false),

		// Fetching
		FetchTimeout:  mustDuration("BOOKMARK_FETCH_TIMEOUT", 5*time.Second),
		FetchMaxBytes: int64(getenvInt("BOOKMARK_FETCH_MAX_BYTES", 2<<20)),
		UserAgent:     getenv("BOOKMARK_USER_AGENT", ""),

		SummaryEnabled:  mustBool("BOOKMARK_SUMMARY_ENABLED", true),
		SummaryEndpoint: getenv("BOOKMARK_SUMMARY_ENDPOINT", "https://r.jina.ai/http://"),
		SummaryTimeout:  mustDuration("BOOKMARK_SUMMARY_TIMEOUT", 5*time.Second),

		MetadataRateBurst:  getenvInt("BOOKMARK_METADATA_RATE_BURST", 10),
		MetadataRatePerMin: getenvInt("BOOKMARK_METADATA_RATE_PER_MIN", 30),

		ImportFile:     getenv("BOOKMARK_IMPORT_FILE", ""),
		ImportInterval: mustDuration("BOOKMARK_IMPORT_INTERVAL", 0),

		// Redis settings
		RedisAddr:             getenv("BOOKMARK_REDIS_ADDR", ""),
		RedisUser:             getenv("BOOKMARK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BOOKMARK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("BOOKMARK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BOOKMARK_REDIS_DB", 0),
		RedisDT:               mustDuration("BOOKMARK_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("BOOKMARK_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("BOOKMARK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("BOOKMARK_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("BOOKMARK_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("BOOKMARK_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("BOOKMARK_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("BOOKMARK_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("BOOKMARK_REDIS_WARN_THRESHOLD", 3),

		// Postgres settings
		PostgresDSN:             getenv("BOOKMARK_POSTGRES_DSN", ""),
		PostgresMaxConns:        getenvInt("BOOKMARK_POSTGRES_MAX_CONNS", 0),
		PostgresMinConns:        getenvInt("BOOKMARK_POSTGRES_MIN_CONNS", 0),
		PostgresMaxConnLifetime: mustDuration("BOOKMARK_POSTGRES_MAX_CONN_LIFETIME", 0),
		PostgresAutoMigrate:     mustBool("BOOKMARK_POSTGRES_AUTO_MIGRATE", false),
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisAddr == "" {
			panic("❌ FATAL: BOOKMARK_REDIS_ADDR is required when BOOKMARK_STORE=redis")
		}
		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: BOOKMARK_REDIS_PASSWORD is required when BOOKMARK_REDIS_PASSWORD_REQUIRED=true")
		}
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			panic("❌ FATAL: BOOKMARK_POSTGRES_DSN is required when BOOKMARK_STORE=postgres")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid BOOKMARK_STORE %q (want memory, redis or postgres)", cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	const redacted = "***REDACTED***"

	out := c
	out.APITokens = make(map[string]string, len(c.APITokens))
	for _, user := range c.APITokens {
		out.APITokens[redacted+"("+user+")"] = user
	}
	if c.RedisPassword != "" {
		out.RedisPassword = redacted
	}
	if c.RedisUser != "" {
		out.RedisUser = redacted
	}
	if c.PostgresDSN != "" {
		out.PostgresDSN = redacted
	}
	return out
}

// parseTokens reads "token:user" pairs separated by commas.
func parseTokens(raw string) map[string]string {
	tokens := make(map[string]string)
	for _, pair := range splitAndTrim(raw) {
		token, user, ok := strings.Cut(pair, ":")
		token, user = strings.TrimSpace(token), strings.TrimSpace(user)
		if !ok || token == "" || user == "" {
			panic(fmt.Sprintf("❌ FATAL: Invalid BOOKMARK_API_TOKENS entry %q (want token:user)", pair))
		}
		tokens[token] = user
	}
	if len(tokens) == 0 {
		panic("❌ FATAL: BOOKMARK_API_TOKENS holds no token:user pair")
	}
	return tokens
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
