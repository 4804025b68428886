// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config is the server configuration.
type Config struct {
	HTTPAddr      string        `env:"GAMEPLAN_HTTP_ADDR"      envDefault:":8080"`
	GRPCAddr      string        `env:"GAMEPLAN_GRPC_ADDR"      envDefault:":9090"`
	DBPath        string        `env:"GAMEPLAN_DB_PATH"        envDefault:"gameplans.db"`
	ConfigDir     string        `env:"GAMEPLAN_CONFIG_DIR"`
	WatchInterval time.Duration `env:"GAMEPLAN_WATCH_INTERVAL" envDefault:"2s"`
	ReadOnly      bool          `env:"GAMEPLAN_READ_ONLY"      envDefault:"false"`
	CacheSize     int           `env:"GAMEPLAN_CACHE_SIZE"     envDefault:"100"`
	LogLevel      string        `env:"GAMEPLAN_LOG_LEVEL"      envDefault:"info"`
	LogJSON       bool          `env:"GAMEPLAN_LOG_JSON"       envDefault:"false"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, "GAMEPLAN_HTTP_ADDR is required")
	}
	if strings.TrimSpace(c.GRPCAddr) == "" {
		errs = append(errs, "GAMEPLAN_GRPC_ADDR is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "GAMEPLAN_DB_PATH is required")
	}
	if c.WatchInterval <= 0 {
		errs = append(errs, "GAMEPLAN_WATCH_INTERVAL must be positive")
	}
	if c.CacheSize <= 0 {
		errs = append(errs, "GAMEPLAN_CACHE_SIZE must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("GAMEPLAN_LOG_LEVEL: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// CanModify reports whether saving gameplans is allowed.
func (c Config) CanModify() bool { return !c.ReadOnly }

// NewLogger builds the process logger writing to out.
func (c Config) NewLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if c.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
