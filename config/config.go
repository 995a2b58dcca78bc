// Package config loads the server settings from the environment, reading a
// .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresConn      string
	ServerAddress     string
	UploadDir         string
	LogLevel          slog.Level
	Location          *time.Location
	MaxUploadBytes    int64
	MigrationsEnabled bool
}

// Load reads the configuration. POSTGRES_CONN is the only required key.
func Load() (Config, error) {
	loadEnvIfExists(".env")

	cfg := Config{
		PostgresConn:  os.Getenv("POSTGRES_CONN"),
		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0:8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
	}
	if cfg.PostgresConn == "" {
		return Config{}, errors.New("POSTGRES_CONN env variable is not set")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TZ_LOCATION", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("TZ_LOCATION: %w", err)
	}
	cfg.Location = loc

	mb, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64)
	if err != nil || mb <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB: invalid value %q", os.Getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadBytes = mb << 20

	cfg.MigrationsEnabled, err = strconv.ParseBool(getEnv("MIGRATIONS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("MIGRATIONS_ENABLED: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func loadEnvIfExists(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

// NewHTTPServer wraps handler with the server timeouts.
func NewHTTPServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
