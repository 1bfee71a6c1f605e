package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Breaker  BreakerConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowOrigins    string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int32
	QueryTimeout  time.Duration
	RunMigrations bool
}

type StorageConfig struct {
	// Driver selects the transaction store: postgres or memory.
	Driver string
}

type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	OpenTimeout         time.Duration
	ConsecutiveFailures uint32
}

type RedisConfig struct {
	// Addr enables the summary cache when set.
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	SummaryTTL time.Duration
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Load reads configuration from the environment. A .env file in the working
// directory or one of its parents is applied first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	p := &parser{}
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", getEnv("PORT", "5000")),
			Environment:     getEnv("APP_ENV", "development"),
			ReadTimeout:     p.seconds("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:    p.seconds("SERVER_WRITE_TIMEOUT", 30),
			ShutdownTimeout: p.seconds("SERVER_SHUTDOWN_TIMEOUT", 10),
			AllowOrigins:    getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "finease"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      int32(p.integer("DB_MAX_CONNS", 10)),
			QueryTimeout:  p.seconds("DB_QUERY_TIMEOUT", 5),
			RunMigrations: p.boolean("DB_RUN_MIGRATIONS", true),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "postgres")),
		},
		Breaker: BreakerConfig{
			MaxRequests:         uint32(p.integer("BREAKER_MAX_REQUESTS", 1)),
			Interval:            p.seconds("BREAKER_INTERVAL", 60),
			OpenTimeout:         p.seconds("BREAKER_OPEN_TIMEOUT", 30),
			ConsecutiveFailures: uint32(p.integer("BREAKER_CONSECUTIVE_FAILURES", 5)),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         p.integer("REDIS_DB", 0),
			KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "finease:"),
			SummaryTTL: p.seconds("SUMMARY_CACHE_TTL", 300),
		},
		Metrics: MetricsConfig{
			Enabled:   p.boolean("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "finease"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be postgres or memory, got %q", c.Storage.Driver)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) integer(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: %s: %w", key, err)
	}
	return v
}

func (p *parser) seconds(key string, def int) time.Duration {
	return time.Duration(p.integer(key, def)) * time.Second
}

func (p *parser) boolean(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: %s: %w", key, err)
	}
	return v
}
