// Package config loads the settings shared by the commands: from a .env file,
// the environment and finally command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns URL when set, otherwise a connection string assembled from the
// individual settings.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Validate reports whether enough settings are present to connect.
func (d Database) Validate() error {
	if d.URL == "" && d.Name == "" {
		return errors.New("database required (use -db-url, DATABASE_URL or POSTGRES_DB)")
	}
	return nil
}

type Config struct {
	Addr            string
	Store           string
	Database        Database
	AdminJWTSecret  string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

// Load reads an optional .env file and parses the environment and args.
func Load(name string, args []string) (Config, *flag.FlagSet, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return Parse(name, args, os.Getenv)
}

// Parse builds a Config from getenv and args. Flags override the environment.
// The returned flag set holds any remaining positional arguments.
func Parse(name string, args []string, getenv func(string) string) (Config, *flag.FlagSet, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	var cfg Config
	var origins, logLevel string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.Store, "store", env("POLL_STORE", StorePostgres), "Poll store (postgres or memory)")
	fs.StringVar(&cfg.Database.URL, "db-url", getenv("DATABASE_URL"), "Database URL, overrides the individual db flags")
	fs.StringVar(&cfg.Database.Host, "db-host", env("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&cfg.Database.Port, "db-port", env("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.Database.User, "db-user", getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.Database.Password, "db-pass", getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.Database.Name, "db-name", getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.Database.SSLMode, "db-sslmode", env("POSTGRES_SSLMODE", "disable"), "Database sslmode")
	fs.StringVar(&cfg.AdminJWTSecret, "admin-secret", getenv("ADMIN_JWT_SECRET"), "Admin token secret (prefer env)")
	fs.StringVar(&origins, "origins", getenv("CORS_ALLOWED_ORIGINS"), "Comma separated list of allowed CORS origins")
	fs.StringVar(&logLevel, "log-level", env("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")

	requestTimeout, err := durationEnv(getenv, "REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, nil, err
	}
	shutdownTimeout, err := durationEnv(getenv, "SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, nil, err
	}
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", requestTimeout, "Per request timeout")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdownTimeout, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return Config{}, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	return cfg, fs, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
