// Package config resolves grantplan settings from the environment, an
// optional .env.local file, an optional YAML file and built-in defaults,
// in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GRANTPLAN_"

// Config holds all runtime settings.
type Config struct {
	DBPath           string        `yaml:"db_path"`
	User             string        `yaml:"user"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	CreateTimeout    time.Duration `yaml:"create_timeout"`
	RestoreTimeout   time.Duration `yaml:"restore_timeout"`
	StrictMembership bool          `yaml:"strict_membership"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	dbPath := "grantplan.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".grantplan", "grantplan.db")
	}
	return Config{
		DBPath:         dbPath,
		LogLevel:       "warn",
		LogFormat:      "text",
		CreateTimeout:  30 * time.Second,
		RestoreTimeout: 60 * time.Second,
	}
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Load resolves configuration for the current working directory and
// process environment.
func Load() (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("finding working directory: %w", err)
	}
	home, _ := os.UserHomeDir()
	return LoadFrom(cwd, home, os.LookupEnv)
}

// LoadFrom resolves configuration starting the .env.local search at dir
// and stopping at stopAt (or the filesystem root).
func LoadFrom(dir, stopAt string, lookup LookupFunc) (Config, error) {
	cfg := DefaultConfig()

	dotenv := map[string]string{}
	if path := findEnvLocal(dir, stopAt); path != "" {
		vals, err := godotenv.Read(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		dotenv = vals
	}
	get := func(name string) string {
		key := envPrefix + name
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	}

	if path := get("CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := get("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := get("USER"); v != "" {
		cfg.User = v
	}
	if v := get("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := get("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if err := applyDuration(get("CREATE_TIMEOUT"), "CREATE_TIMEOUT", &cfg.CreateTimeout); err != nil {
		return Config{}, err
	}
	if err := applyDuration(get("RESTORE_TIMEOUT"), "RESTORE_TIMEOUT", &cfg.RestoreTimeout); err != nil {
		return Config{}, err
	}
	if v := get("STRICT_MEMBERSHIP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %sSTRICT_MEMBERSHIP: %w", envPrefix, err)
		}
		cfg.StrictMembership = b
	}

	cfg.User = strings.TrimSpace(cfg.User)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the CLI cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if _, ok := levels[c.LogLevel]; !ok {
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format %q must be text or json", c.LogFormat)
	}
	if c.CreateTimeout <= 0 || c.RestoreTimeout <= 0 {
		return fmt.Errorf("transaction timeouts must be positive")
	}
	return nil
}

func applyDuration(raw, name string, dst *time.Duration) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
	}
	*dst = d
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// findEnvLocal walks up from dir looking for .env.local, stopping after
// stopAt or at the filesystem root.
func findEnvLocal(dir, stopAt string) string {
	dir = filepath.Clean(dir)
	if stopAt != "" {
		stopAt = filepath.Clean(stopAt)
	}
	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		if dir == stopAt {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
