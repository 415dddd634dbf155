// Package config reads the server configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr    string
	RedisChannel string

	CompletionMode string

	RecoveryInterval   time.Duration
	RecoveryStaleAfter time.Duration
	RecoveryAutoResume bool

	LogLevel  string
	LogFormat string
}

// DevJWTSecret is the secret used when JWT_SECRET is unset. Never use it in production.
const DevJWTSecret = "dev-only-secret-change-me"

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		DBDriver:           "sqlite3",
		DBDSN:              "study.db",
		JWTSecret:          DevJWTSecret,
		JWTTTL:             24 * time.Hour,
		RedisChannel:       "study-cycles",
		CompletionMode:     "atomic",
		RecoveryInterval:   5 * time.Minute,
		RecoveryStaleAfter: 10 * time.Minute,
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, falling back to Default for unset
// or empty variables.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get("DB_DRIVER"); ok {
		cfg.DBDriver = v
	}
	if v, ok := get("DB_DSN"); ok {
		cfg.DBDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		cfg.JWTSecret = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := get("REDIS_CHANNEL"); ok {
		cfg.RedisChannel = v
	}
	if v, ok := get("COMPLETION_MODE"); ok {
		cfg.CompletionMode = strings.ToLower(v)
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_TTL", &cfg.JWTTTL},
		{"RECOVERY_INTERVAL", &cfg.RecoveryInterval},
		{"RECOVERY_STALE_AFTER", &cfg.RecoveryStaleAfter},
	}
	for _, d := range durations {
		v, ok := get(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", d.key, v, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be positive", d.key, v)
		}
		*d.dst = parsed
	}

	if v, ok := get("RECOVERY_AUTO_RESUME"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RECOVERY_AUTO_RESUME %q: %w", v, err)
		}
		cfg.RecoveryAutoResume = b
	}

	switch cfg.CompletionMode {
	case "atomic", "stepwise":
	default:
		return Config{}, fmt.Errorf("invalid COMPLETION_MODE %q: want atomic or stepwise", cfg.CompletionMode)
	}

	return cfg, nil
}
