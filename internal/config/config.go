// Package config resolves runtime configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"booklib/internal/state"
)

const (
	// ModeProduction selects the in-cluster API address.
	ModeProduction = "production"
	// ModeDevelopment is the default; requests go through the dev proxy.
	ModeDevelopment = "development"

	// ProductionBaseURL is the API address on the container network.
	ProductionBaseURL = "http://booklib-api:5000"
	// DevAPIPath is the path the development proxy forwards to the API.
	DevAPIPath = "/api"
	// DefaultDevProxy is the origin of the local development proxy.
	DefaultDevProxy = "http://localhost:5173"

	defaultLogFile = ".booklib/booklib.log"
)

// Config holds the client configuration.
type Config struct {
	Mode     string
	DevProxy string
	StateDir string
	Log      LogConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	File   string
	Level  string
	Format string // text or json
}

// Load parses args (without the program name) and fills in the rest from the
// environment, then the .env file, then defaults.
func Load(args []string) (*Config, error) {
	fsFlags := pflag.NewFlagSet("booklib", pflag.ContinueOnError)
	mode := fsFlags.StringP("mode", "m", "", "runtime mode (production or development)")
	devProxy := fsFlags.String("dev-proxy", "", "origin of the development proxy")
	stateDir := fsFlags.String("state-dir", "", "directory for persisted client state")
	logFile := fsFlags.String("log-file", "", "path of the log file")
	logLevel := fsFlags.String("log-level", "", "log level (debug, info, warn, error)")
	logFormat := fsFlags.String("log-format", "", "log format (text or json)")
	envFile := fsFlags.String("env-file", ".env", "path to .env file")

	if err := fsFlags.Parse(args); err != nil {
		return nil, err
	}

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		Mode:     strings.ToLower(getConfigValue(*mode, "BOOKLIB_MODE", ModeDevelopment)),
		DevProxy: getConfigValue(*devProxy, "BOOKLIB_DEV_PROXY", DefaultDevProxy),
		StateDir: getConfigValue(*stateDir, state.DirEnv, ""),
		Log: LogConfig{
			File:   getConfigValue(*logFile, "BOOKLIB_LOG_FILE", ""),
			Level:  strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
			Format: strings.ToLower(getConfigValue(*logFormat, "LOG_FORMAT", "text")),
		},
	}

	if cfg.StateDir == "" {
		dir, err := state.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = dir
	}
	if cfg.Log.File == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
		cfg.Log.File = filepath.Join(home, defaultLogFile)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode != ModeProduction {
		u, err := url.Parse(c.DevProxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid dev proxy %q: must be an absolute URL", c.DevProxy)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// BaseURL returns the API base URL for the configured mode.
func (c *Config) BaseURL() string {
	return BaseURL(c.Mode, c.DevProxy)
}

// BaseURL maps a mode to the API base URL. Only "production" selects the
// fixed service address; every other value goes through the dev proxy.
func BaseURL(mode, devProxy string) string {
	if mode == ModeProduction {
		return ProductionBaseURL
	}
	if devProxy == "" {
		devProxy = DefaultDevProxy
	}
	return strings.TrimSuffix(devProxy, "/") + DevAPIPath
}

// getConfigValue returns the flag value if set, else the env var, else def.
func getConfigValue(flagValue, envKey, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return def
}
