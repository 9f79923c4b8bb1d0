// Package config loads the client configuration from a YAML file, an optional
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/and161185/starostahub/internal/i18n"
)

// Environment overrides, applied after the file and before flags.
const (
	EnvAPIURL   = "STAROSTA_API_URL"
	EnvLocale   = "STAROSTA_LOCALE"
	EnvLogLevel = "STAROSTA_LOG_LEVEL"
	EnvStateDir = "STAROSTA_STATE_DIR"
)

const (
	defaultAPIURL   = "http://127.0.0.1:8000"
	defaultTimezone = "Europe/Kyiv"
	defaultLogLevel = "warn"
	defaultPreview  = 8

	appDir   = "starostahub"
	fileName = "config.yaml"
)

// Config is the client configuration.
type Config struct {
	// APIURL is the base URL of the remote service.
	APIURL string `yaml:"api_url"`

	// Locale is one of "uk" or "en".
	Locale string `yaml:"locale"`

	// Timezone is the IANA zone used to read dates the user types and to
	// render the schedule (e.g. "Europe/Kyiv").
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`
	LogDev   bool   `yaml:"log_dev"`

	// StateDir holds the persisted session. Empty means the config directory.
	StateDir string `yaml:"state_dir,omitempty"`

	// PreviewCount caps the occurrences printed after saving a recurring event.
	PreviewCount int `yaml:"preview_count"`
}

// Dir is the per-user configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDir)
}

// DefaultPath is the config file inside Dir.
func DefaultPath() string { return filepath.Join(Dir(), fileName) }

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:       defaultAPIURL,
		Locale:       string(i18n.DefaultLocale),
		Timezone:     defaultTimezone,
		LogLevel:     defaultLogLevel,
		PreviewCount: defaultPreview,
	}
}

// Normalize fills zero values and folds unknown ones back to the defaults.
func (c *Config) Normalize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if loc, err := i18n.ParseLocale(c.Locale); err == nil {
		c.Locale = string(loc)
	} else {
		c.Locale = string(i18n.DefaultLocale)
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.PreviewCount <= 0 {
		c.PreviewCount = defaultPreview
	}
}

// SessionDir is where the session file lives.
func (c *Config) SessionDir(configPath string) string {
	if c.StateDir != "" {
		return c.StateDir
	}
	return filepath.Dir(configPath)
}

// Location resolves Timezone; an unknown zone is an error.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ApplyEnv overrides fields from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvLocale); v != "" {
		c.Locale = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvStateDir); v != "" {
		c.StateDir = v
	}
	c.Normalize()
}

// LoadDotEnv loads the given .env files into the process environment. Missing
// files are skipped; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return err
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: dotenv %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path. On first run the file is created with
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
