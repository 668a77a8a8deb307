package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"bytebite/internal/adapters/out/tablestore"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	QueueDriverRedis  = "redis"
	QueueDriverMemory = "memory"
)

type Config struct {
	ServiceName string
	LogLevel    string

	HTTPPort       int
	RequestTimeout time.Duration

	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	SQLitePath  string

	QueueDriver       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	QueuePrefix       string
	QueueMessageTTL   time.Duration
	VisibilityTimeout time.Duration
	PollLimit         int

	ReconcileSchedule   string
	ReconcileStaleAfter time.Duration
	ReconcileBatch      int
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "bytebite"))
	cfg.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))
	cfg.RequestTimeout = cast.ToDuration(getOrReturnDefault("REQUEST_TIMEOUT", "30s"))

	cfg.StoreDriver = cast.ToString(getOrReturnDefault("STORE_DRIVER", tablestore.DriverPostgres))
	cfg.DBHost = cast.ToString(getOrReturnDefault("DB_HOST", "localhost"))
	cfg.DBPort = cast.ToString(getOrReturnDefault("DB_PORT", "5432"))
	cfg.DBUser = cast.ToString(getOrReturnDefault("DB_USER", "postgres"))
	cfg.DBPassword = cast.ToString(getOrReturnDefault("DB_PASSWORD", ""))
	cfg.DBName = cast.ToString(getOrReturnDefault("DB_NAME", "bytebite"))
	cfg.DBSslMode = cast.ToString(getOrReturnDefault("DB_SSLMODE", "disable"))
	cfg.SQLitePath = cast.ToString(getOrReturnDefault("SQLITE_PATH", "bytebite.db"))

	cfg.QueueDriver = cast.ToString(getOrReturnDefault("QUEUE_DRIVER", QueueDriverRedis))
	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))
	cfg.QueuePrefix = cast.ToString(getOrReturnDefault("QUEUE_PREFIX", "bytebite:dispatch"))
	cfg.QueueMessageTTL = cast.ToDuration(getOrReturnDefault("QUEUE_MESSAGE_TTL", "168h"))
	cfg.VisibilityTimeout = cast.ToDuration(getOrReturnDefault("VISIBILITY_TIMEOUT", "30s"))
	cfg.PollLimit = cast.ToInt(getOrReturnDefault("POLL_LIMIT", 5))

	cfg.ReconcileSchedule = cast.ToString(getOrReturnDefault("RECONCILE_SCHEDULE", "0 * * * * *"))
	cfg.ReconcileStaleAfter = cast.ToDuration(getOrReturnDefault("RECONCILE_STALE_AFTER", "2m"))
	cfg.ReconcileBatch = cast.ToInt(getOrReturnDefault("RECONCILE_BATCH", 100))

	return cfg
}

// Validate reports settings that cannot work, such as unparsable durations
// which cast turns into zero.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		problems = append(problems, fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort))
	}
	if c.StoreDriver != tablestore.DriverPostgres && c.StoreDriver != tablestore.DriverSQLite {
		problems = append(problems, fmt.Errorf("STORE_DRIVER %q is not postgres or sqlite", c.StoreDriver))
	}
	if c.QueueDriver != QueueDriverRedis && c.QueueDriver != QueueDriverMemory {
		problems = append(problems, fmt.Errorf("QUEUE_DRIVER %q is not redis or memory", c.QueueDriver))
	}
	for name, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT":       c.RequestTimeout,
		"QUEUE_MESSAGE_TTL":     c.QueueMessageTTL,
		"VISIBILITY_TIMEOUT":    c.VisibilityTimeout,
		"RECONCILE_STALE_AFTER": c.ReconcileStaleAfter,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Errorf("%s must be a positive duration", name))
		}
	}
	if c.PollLimit < 1 {
		problems = append(problems, errors.New("POLL_LIMIT must be positive"))
	}
	return errors.Join(problems...)
}

// PostgresDSN is the key/value connection string of the entity store.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getOrReturnDefault(key string, defaultValue any) any {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
