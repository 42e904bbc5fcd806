// Package config loads player settings from ~/.academy/config.yaml, .env and
// the environment, in that order of increasing precedence. Command line
// flags are applied on top by the callers.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NeroQue/academy-player/pkg/util"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is everything the CLI and the local API need
type Config struct {
	APIURL      string        `yaml:"api_url"`
	Token       string        `yaml:"token"`
	ListenAddr  string        `yaml:"listen_addr"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// SessionConfig says where the viewer's token is persisted
type SessionConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

// LogConfig mirrors logger.Config
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		APIURL:      "http://localhost:3000/api",
		ListenAddr:  ":8080",
		HTTPTimeout: 15 * time.Second,
		Session: SessionConfig{
			Driver: DriverSQLite,
			DSN:    util.ResolveDataPath("session.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		CORSAllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// DefaultFile is where the yaml config is looked up
func DefaultFile() string {
	return util.ResolveDataPath("config.yaml")
}

// Load builds the config. An empty path means DefaultFile; a missing file is
// fine, a broken one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile()
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}

	// .env is optional, real env vars win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.APIURL = getEnv("ACADEMY_API_URL", cfg.APIURL)
	cfg.Token = getEnv("ACADEMY_TOKEN", cfg.Token)
	cfg.ListenAddr = getEnv("ACADEMY_LISTEN_ADDR", cfg.ListenAddr)
	cfg.Session.Driver = getEnv("ACADEMY_SESSION_DRIVER", cfg.Session.Driver)
	cfg.Session.DSN = getEnv("ACADEMY_SESSION_DSN", cfg.Session.DSN)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)

	if v := os.Getenv("ACADEMY_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ACADEMY_HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = parseStringList(v)
	}
	return nil
}

// Validate reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid ACADEMY_API_URL: %q (must be an http(s) url)", c.APIURL))
	}

	if c.ListenAddr == "" {
		problems = append(problems, "ACADEMY_LISTEN_ADDR is required")
	}

	if c.HTTPTimeout <= 0 {
		problems = append(problems, "ACADEMY_HTTP_TIMEOUT must be positive")
	}

	switch c.Session.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("invalid ACADEMY_SESSION_DRIVER: %s (must be: sqlite, postgres)", c.Session.Driver))
	}
	if c.Session.DSN == "" {
		problems = append(problems, "ACADEMY_SESSION_DSN is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		problems = append(problems, fmt.Sprintf("invalid LOG_LEVEL: %s (must be: debug, info, warn, error)", c.Log.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		problems = append(problems, fmt.Sprintf("invalid LOG_FORMAT: %s (must be: text, json)", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// EnsureDirs creates the folders the sqlite database and log file live in
func (c *Config) EnsureDirs() error {
	var dirs []string
	if c.Session.Driver == DriverSQLite {
		dirs = append(dirs, filepath.Dir(c.Session.DSN))
	}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}
	for _, dir := range dirs {
		if !util.EnsureDirectoryExists(dir) {
			return fmt.Errorf("failed to create directory %s", dir)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
