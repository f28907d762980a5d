package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/listbot/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration of listbot.
type Config struct {
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	Telegram TelegramConfig `yaml:"telegram" mapstructure:"telegram"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Limits   LimitsConfig   `yaml:"limits" mapstructure:"limits"`
}

// TelegramConfig configures the Telegram adapter.
type TelegramConfig struct {
	Token          string        `yaml:"token" mapstructure:"token"`
	BannerDir      string        `yaml:"banner_dir" mapstructure:"banner_dir"`
	PollTimeout    int           `yaml:"poll_timeout" mapstructure:"poll_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	Debug          bool          `yaml:"debug" mapstructure:"debug"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	Backend       string        `yaml:"backend" mapstructure:"backend"`
	Path          string        `yaml:"path" mapstructure:"path"`
	SQLitePath    string        `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Redis         RedisConfig   `yaml:"redis" mapstructure:"redis"`
	EncryptionKey string        `yaml:"encryption_key" mapstructure:"encryption_key"`
	FallbackKeys  []string      `yaml:"fallback_keys" mapstructure:"fallback_keys"`
	LockTTL       time.Duration `yaml:"lock_ttl" mapstructure:"lock_ttl"`
}

// RedisConfig configures the redis store and locker.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Lock     bool          `yaml:"lock" mapstructure:"lock"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LimitsConfig bounds the work a single message may cause.
type LimitsConfig struct {
	MaxInputSize      int `yaml:"max_input_size" mapstructure:"max_input_size"`
	MaxExpandedTokens int `yaml:"max_expanded_tokens" mapstructure:"max_expanded_tokens"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Telegram: TelegramConfig{
			BannerDir:      "assets",
			PollTimeout:    60,
			RequestTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:    BackendMemory,
			Path:       ".listbot/sessions",
			SQLitePath: ".listbot/sessions.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "listbot:session:",
				TTL:    24 * time.Hour,
				Lock:   true,
			},
			LockTTL: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Limits: LimitsConfig{
			MaxInputSize:      64 * 1024,
			MaxExpandedTokens: 10000,
		},
	}
}

// envKeys maps environment variables to configuration paths.
var envKeys = map[string]string{
	"LISTBOT_LOG_LEVEL":           "log_level",
	"LISTBOT_LOG_FORMAT":          "log_format",
	"LISTBOT_TELEGRAM_TOKEN":      "telegram.token",
	"LISTBOT_BANNER_DIR":          "telegram.banner_dir",
	"LISTBOT_STORE":               "store.backend",
	"LISTBOT_STORE_PATH":          "store.path",
	"LISTBOT_SQLITE_PATH":         "store.sqlite_path",
	"LISTBOT_ENCRYPTION_KEY":      "store.encryption_key",
	"LISTBOT_REDIS_ADDR":          "store.redis.addr",
	"LISTBOT_REDIS_PASSWORD":      "store.redis.password",
	"LISTBOT_REDIS_DB":            "store.redis.db",
	"LISTBOT_SESSION_TTL":         "store.redis.ttl",
	"LISTBOT_HTTP_ADDR":           "http.addr",
	"LISTBOT_MAX_INPUT_SIZE":      "limits.max_input_size",
	"LISTBOT_MAX_EXPANDED_TOKENS": "limits.max_expanded_tokens",
}

// Load reads the YAML file at path (optional), applies LISTBOT_* environment overrides
// on top of it and decodes the result over Default.
func Load(path string) (*Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for env, key := range envKeys {
		if val, ok := os.LookupEnv(env); ok {
			setPath(raw, key, val)
		}
	}

	cfg := Default()
	if err := Decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges a generic map (parsed YAML, flags, environment) into cfg.
// Strings are converted to numbers, booleans and durations as needed.
func Decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setPath(m map[string]any, dotted string, val any) {
	parts := strings.Split(dotted, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = val
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Limits.MaxInputSize < 0 || c.Limits.MaxExpandedTokens < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidConfig)
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return err
	}
	return nil
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
// Keys are 32 bytes, written as base64 or hex.
func (s StoreConfig) Keys() ([]byte, [][]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err := decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	var fallback [][]byte
	for _, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if key, err := hex.DecodeString(s); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(s); err == nil && len(key) == 32 {
		return key, nil
	}
	return nil, fmt.Errorf("%w: encryption key must be 32 bytes in hex or base64", ErrInvalidConfig)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	redact := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.Telegram.Token = redact(c.Telegram.Token)
	c.Store.EncryptionKey = redact(c.Store.EncryptionKey)
	c.Store.Redis.Password = redact(c.Store.Redis.Password)
	if len(c.Store.FallbackKeys) > 0 {
		c.Store.FallbackKeys = []string{"***"}
	}
	return c
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
