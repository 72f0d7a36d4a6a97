// Package config loads the mdhtml configuration from a YAML or JSON file and
// MDHTML_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MDHTML_"

// Cache backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Flavour      string       `mapstructure:"flavour"`
	LogLevel     string       `mapstructure:"log_level"`
	MaxDepth     int          `mapstructure:"max_depth"`
	MaxInputSize int          `mapstructure:"max_input_size"`
	Server       ServerConfig `mapstructure:"server"`
	Cache        CacheConfig  `mapstructure:"cache"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`

	// EncryptionKey is a base64 AES-256 key; when set, cached HTML is stored encrypted.
	EncryptionKey string       `mapstructure:"encryption_key"`
	Redis         RedisConfig  `mapstructure:"redis"`
	SQLite        SQLiteConfig `mapstructure:"sqlite"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Flavour:      "gfm",
		LogLevel:     "info",
		MaxDepth:     1000,
		MaxInputSize: 1 << 20,
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Backend: BackendNone,
			TTL:     time.Hour,
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "mdhtml:render:",
			},
			SQLite: SQLiteConfig{
				Path: "mdhtml-cache.db",
			},
		},
	}
}

// env maps environment suffixes to dotted config keys.
var env = map[string]string{
	"FLAVOUR":                 "flavour",
	"LOG_LEVEL":               "log_level",
	"MAX_DEPTH":               "max_depth",
	"MAX_INPUT_SIZE":          "max_input_size",
	"SERVER_PORT":             "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"CACHE_BACKEND":           "cache.backend",
	"CACHE_TTL":               "cache.ttl",
	"CACHE_ENCRYPTION_KEY":    "cache.encryption_key",
	"CACHE_REDIS_ADDRESS":     "cache.redis.address",
	"CACHE_REDIS_PASSWORD":    "cache.redis.password",
	"CACHE_REDIS_DB":          "cache.redis.db",
	"CACHE_REDIS_PREFIX":      "cache.redis.prefix",
	"CACHE_SQLITE_PATH":       "cache.sqlite.path",
}

// Load reads path (if not empty), applies environment overrides and
// validates the result. A missing file is an error.
func Load(path string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		raw, err = parse(data, filepath.Ext(path))
		if err != nil {
			return Config{}, err
		}
	}

	for suffix, key := range env {
		if val, ok := os.LookupEnv(EnvPrefix + suffix); ok {
			set(raw, strings.Split(key, "."), val)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(data []byte, ext string) (map[string]any, error) {
	raw := map[string]any{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config json: %w", err)
		}
		return raw, nil
	}
	// Default to YAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func set(m map[string]any, path []string, val string) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = val
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must not be negative", ErrInvalidConfig)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}
