package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the service settings read from the environment.
type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	// RedisURL is optional. The note cache and idempotency keys are
	// disabled when it is empty.
	RedisURL       string        `env:"REDIS_URL"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX,default=taskbook"`
	NoteCacheTTL   time.Duration `env:"NOTE_CACHE_TTL,default=1h"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	Debug      bool   `env:"DEBUG"`
	AppVersion string `env:"APP_VERSION,default=dev"`
}

// Load reads the given .env files, or ".env" when none are given, and then
// decodes the environment. Missing files are ignored and variables already
// set in the environment take precedence.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, nil
}

// Level returns the configured log level. DEBUG=true always wins.
func (c Config) Level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
