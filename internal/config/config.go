// Package config loads settings for the ledger binary.
//
// Sources, lowest precedence first: flag defaults, the YAML file named by
// --config, the environment (including a .env file), then flags set on the
// command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const (
	envSecret   = "LEDGER_SECRET"
	envDSN      = "LEDGER_DSN"
	envLogLevel = "LEDGER_LOG_LEVEL"
)

var (
	ErrSecretMissing   = errors.New("secret is required (set LEDGER_SECRET)")
	ErrInvalidMaxAge   = errors.New("session-max-age must be positive")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

type Config struct {
	Addr          string        `koanf:"addr"`
	DSN           string        `koanf:"dsn"`
	Secret        string        `koanf:"secret"`
	BasePath      string        `koanf:"base-path"`
	SessionMaxAge time.Duration `koanf:"session-max-age"`
	CookieName    string        `koanf:"cookie-name"`
	CookieSecure  bool          `koanf:"cookie-secure"`
	LogLevel      string        `koanf:"log-level"`
	LogPretty     bool          `koanf:"log-pretty"`
	EnvFile       string        `koanf:"env-file"`
}

// RegisterFlags declares every setting on flags. Flag names double as koanf keys.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML config file")
	flags.String("env-file", ".env", "dotenv file loaded into the environment if present")
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("dsn", "", "PostgreSQL connection string; empty uses an in-memory store")
	flags.String("secret", "", "session signing secret, at least 32 characters")
	flags.String("base-path", "/api/auth", "mount point of the auth endpoints")
	flags.Duration("session-max-age", 24*time.Hour, "session lifetime")
	flags.String("cookie-name", "ledger_session", "session cookie name")
	flags.Bool("cookie-secure", false, "mark the session cookie Secure")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human readable console logs")
}

// Load resolves the configuration from flags, which must already be parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	envFile := k.String("env-file")
	if flags.Changed("env-file") || envFile == "" {
		envFile, _ = flags.GetString("env-file")
	}
	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}

	for key, env := range map[string]string{
		"secret":    envSecret,
		"dsn":       envDSN,
		"log-level": envLogLevel,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretMissing
	}
	if c.SessionMaxAge <= 0 {
		return ErrInvalidMaxAge
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// Logger builds the process logger described by the config.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if c.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
