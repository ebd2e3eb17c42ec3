package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"

	devJWTSecret = "dev-only-notepad-secret"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// Storage
	StoreDriver   string
	DatabaseURL   string
	MongoDatabase string
	DBAutoMigrate bool

	// Auth
	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	// Redis & Caching (optional)
	RedisURL      string
	NotesCacheTTL time.Duration

	// RabbitMQ (optional)
	RabbitURL      string
	RabbitExchange string

	CORSAllowedOrigins []string
	TrustProxyHeaders  bool

	// Rate Limiting (auth routes, per IP)
	RLEnabled   bool
	RLAuthLimit int
	RLWindow    time.Duration

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":"+getEnv("PORT", "5000"))

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", StorePostgres))
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", "notepad")
	cfg.DBAutoMigrate = getBool("DB_AUTO_MIGRATE", true)

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")
	cfg.BcryptCost = getIntEnv("BCRYPT_COST", 10)

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "notepad.events")

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.TrustProxyHeaders = getBool("TRUST_PROXY_HEADERS", false)

	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLAuthLimit = getIntEnv("RL_AUTH_LIMIT", 20)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"TOKEN_TTL", 24 * time.Hour, &cfg.TokenTTL},
		{"NOTES_CACHE_TTL", 30 * time.Second, &cfg.NotesCacheTTL},
		{"RL_WINDOW", time.Minute, &cfg.RLWindow},
		{"HTTP_READ_TIMEOUT", 10 * time.Second, &cfg.HTTPReadTimeout},
		{"HTTP_WRITE_TIMEOUT", 20 * time.Second, &cfg.HTTPWriteTimeout},
		{"HTTP_IDLE_TIMEOUT", 60 * time.Second, &cfg.HTTPIdleTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", 15 * time.Second, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	// validation
	switch cfg.StoreDriver {
	case StorePostgres, StoreMySQL, StoreMongo:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("missing DATABASE_URL (required for STORE_DRIVER=%s)", cfg.StoreDriver)
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want postgres|mysql|mongo|memory)", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return nil, fmt.Errorf("missing JWT_SECRET (required when APP_ENV != dev)")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool { return c.AppEnv == "dev" }

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
