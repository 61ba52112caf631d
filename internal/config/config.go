// Package config loads the server configuration from a YAML file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// ServerConfig holds the listen address
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// TLSConfig holds HTTPS settings
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"`
}

// StorageConfig selects where session state is persisted
type StorageConfig struct {
	Backend string        `yaml:"backend"`  // sqlite, file or memory
	DBPath  string        `yaml:"db_path"`  // sqlite database file
	DataDir string        `yaml:"data_dir"` // directory of the JSON file backend
	MaxAge  time.Duration `yaml:"max_age"`  // prune sqlite sessions idle this long; 0 keeps them
}

// DeckConfig holds presentation settings
type DeckConfig struct {
	Title     string        `yaml:"title"`
	TimeLimit time.Duration `yaml:"time_limit"`
}

// AssetsConfig locates the stylesheet and fonts
type AssetsConfig struct {
	Stylesheet string `yaml:"stylesheet"`
	FontsDir   string `yaml:"fonts_dir"`
	Watch      bool   `yaml:"watch"`
}

// SessionConfig configures the session cookie
type SessionConfig struct {
	CookieName     string        `yaml:"cookie_name"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Config is the top-level server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	TLS     TLSConfig     `yaml:"tls"`
	Storage StorageConfig `yaml:"storage"`
	Deck    DeckConfig    `yaml:"deck"`
	Assets  AssetsConfig  `yaml:"assets"`
	Session SessionConfig `yaml:"session"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		TLS: TLSConfig{
			MinVersion: "1.2",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  "./data/deck.db",
			DataDir: "./data",
		},
		Deck: DeckConfig{
			Title:     "slidedeck",
			TimeLimit: 30 * time.Minute,
		},
		Assets: AssetsConfig{
			Stylesheet: "style.css",
			FontsDir:   "fonts",
			Watch:      true,
		},
		Session: SessionConfig{
			CookieName:     "slidedeck_session",
			ConnectTimeout: 30 * time.Second,
		},
	}
}

// LoadConfig loads defaults, then the YAML file at path if it exists, then
// .env and environment overrides
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			log.Printf("Config file not found, using defaults: %s", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	setString("SERVER_HOST", &c.Server.Host)
	setString("SERVER_PORT", &c.Server.Port)
	setString("TLS_CERT_FILE", &c.TLS.CertFile)
	setString("TLS_KEY_FILE", &c.TLS.KeyFile)
	setString("TLS_MIN_VERSION", &c.TLS.MinVersion)
	setString("STORAGE_BACKEND", &c.Storage.Backend)
	setString("DB_PATH", &c.Storage.DBPath)
	setString("DATA_DIR", &c.Storage.DataDir)
	setString("DECK_TITLE", &c.Deck.Title)
	setString("STYLESHEET", &c.Assets.Stylesheet)
	setString("FONTS_DIR", &c.Assets.FontsDir)

	if v := strings.TrimSpace(getenv("TLS_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TLS_ENABLED %q: %w", v, err)
		}
		c.TLS.Enabled = enabled
	}
	if v := strings.TrimSpace(getenv("TIME_LIMIT")); v != "" {
		limit, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TIME_LIMIT %q: %w", v, err)
		}
		c.Deck.TimeLimit = limit
	}
	return nil
}

// parseDuration accepts Go durations and plain seconds
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("tls enabled but cert_file or key_file missing")
	}
	if c.Deck.TimeLimit < 0 {
		return fmt.Errorf("negative time limit %s", c.Deck.TimeLimit)
	}
	if c.Session.ConnectTimeout <= 0 {
		return fmt.Errorf("session connect_timeout must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
