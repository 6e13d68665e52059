package config

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "artcor.config"

// WithContext attaches cfg to ctx.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

// FromContext returns the Config attached by WithContext, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "artcor"

// LogConfig controls the zap logger and its rotating file.
type LogConfig struct {
	Level      string `yaml:"level"      envconfig:"LEVEL"`
	File       string `yaml:"file"       envconfig:"FILE"`
	MaxSize    int    `yaml:"maxSize"    envconfig:"MAX_SIZE"`
	MaxBackups int    `yaml:"maxBackups" envconfig:"MAX_BACKUPS"`
	MaxAge     int    `yaml:"maxAge"     envconfig:"MAX_AGE"`
}

// Config is the full runtime configuration.
type Config struct {
	Env          string `yaml:"env"          envconfig:"ENV"`
	ListenAddr   string `yaml:"listenAddr"   envconfig:"LISTEN_ADDR"`
	Backend      string `yaml:"backend"      envconfig:"BACKEND"`
	DataDir      string `yaml:"dataDir"      envconfig:"DATA_DIR"`
	DatabasePath string `yaml:"databasePath" envconfig:"DATABASE_PATH"`
	MembersKey   string `yaml:"membersKey"   envconfig:"MEMBERS_KEY"`
	EventsKey    string `yaml:"eventsKey"    envconfig:"EVENTS_KEY"`

	UniqueMemberNames   bool   `yaml:"uniqueMemberNames"   envconfig:"UNIQUE_MEMBER_NAMES"`
	AllowEmptyEventName bool   `yaml:"allowEmptyEventName" envconfig:"ALLOW_EMPTY_EVENT_NAME"`
	Locale              string `yaml:"locale"              envconfig:"LOCALE"`
	Tutorial            bool   `yaml:"tutorial"            envconfig:"TUTORIAL"`

	StaticDir          string   `yaml:"staticDir"          envconfig:"STATIC_DIR"`
	CSRFKey            string   `yaml:"csrfKey"            envconfig:"CSRF_KEY"`
	TrustedOrigins     []string `yaml:"trustedOrigins"     envconfig:"TRUSTED_ORIGINS"` // hosts allowed to post forms cross-origin
	RateLimitPerSecond int      `yaml:"rateLimitPerSecond" envconfig:"RATE_LIMIT_PER_SECOND"`
	SlowQueryMs        int      `yaml:"slowQueryMs"        envconfig:"SLOW_QUERY_MS"`
	SlowRequestMs      int      `yaml:"slowRequestMs"      envconfig:"SLOW_REQUEST_MS"`

	Log LogConfig `yaml:"log" envconfig:"LOG"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Env:                EnvProduction,
		ListenAddr:         ":8080",
		Backend:            BackendSQLite,
		DataDir:            ".artcor",
		MembersKey:         "artcor_members",
		EventsKey:          "artcor_events",
		UniqueMemberNames:  true,
		Locale:             "es",
		Tutorial:           true,
		RateLimitPerSecond: 20,
		SlowQueryMs:        50,
		SlowRequestMs:      500,
		Log: LogConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		},
	}
}

// LoadConfig builds a Config from defaults, then the YAML file, then .env,
// then ARTCOR_* environment variables.
// With configFile empty, ~/.artcor/artcor.yaml and /etc/artcor/artcor.yaml
// are tried in turn.
// PRE: none
// POST: Returns a normalized, validated Config
func LoadConfig(configFile string) (*Config, error) {
	cfg := Defaults()

	if configFile == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".artcor", "artcor.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		if configFile == "" {
			systemPath := "/etc/artcor/artcor.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// A missing .env is normal; variables already set win.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills zero values left by overlays.
func (c *Config) Normalize() {
	d := Defaults()
	if c.Env == "" {
		c.Env = d.Env
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	c.Backend = strings.ToLower(c.Backend)
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "artcor.db")
	}
	if c.MembersKey == "" {
		c.MembersKey = d.MembersKey
	}
	if c.EventsKey == "" {
		c.EventsKey = d.EventsKey
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	if c.SlowQueryMs <= 0 {
		c.SlowQueryMs = d.SlowQueryMs
	}
	if c.SlowRequestMs <= 0 {
		c.SlowRequestMs = d.SlowRequestMs
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = d.Log.MaxAge
	}
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("invalid env: %q (must be 'development' or 'production')", c.Env))
	}
	switch c.Backend {
	case BackendSQLite, BackendBadger, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid backend: %q (must be 'sqlite', 'badger' or 'memory')", c.Backend))
	}
	switch c.Locale {
	case "es", "en":
	default:
		errs = append(errs, fmt.Errorf("invalid locale: %q (must be 'es' or 'en')", c.Locale))
	}
	if c.MembersKey == c.EventsKey {
		errs = append(errs, errors.New("membersKey and eventsKey must differ"))
	}
	if c.RateLimitPerSecond < 0 {
		errs = append(errs, errors.New("rateLimitPerSecond cannot be negative"))
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether development behaviours are on.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// CSRFKeyBytes decodes the hex CSRF key.
// PRE: CSRFKey is set
// POST: Returns 32 bytes or an error
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil {
		return nil, fmt.Errorf("invalid csrfKey: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid csrfKey: want 32 bytes, got %d", len(key))
	}
	return key, nil
}
