package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Banglify server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
}

type ServerConfig struct {
	Port               int
	Env                string
	MaxUploadBytes     int64
	AccessKeyHash      string
	RateLimitPerMinute int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AIConfig struct {
	ProviderTimeout time.Duration
	Gemini          GeminiConfig
	Whisper         WhisperConfig
}

// GeminiConfig configures the generative-text provider used for translation
// and summaries. APIKey is only the process-wide default; callers may override it.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// WhisperConfig configures the speech-to-text provider.
type WhisperConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               envInt("BANGLIFY_PORT", 8080),
			Env:                envString("BANGLIFY_ENV", "development"),
			MaxUploadBytes:     int64(envInt("MAX_UPLOAD_BYTES", 200<<20)),
			AccessKeyHash:      os.Getenv("ACCESS_KEY_HASH"),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		AI: AIConfig{
			ProviderTimeout: envDurationSecs("PROVIDER_TIMEOUT_SECS", 120*time.Second),
			Gemini: GeminiConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				Model:   envString("GEMINI_MODEL", "gemini-2.0-flash-exp"),
				BaseURL: os.Getenv("GEMINI_BASE_URL"),
			},
			Whisper: WhisperConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				Model:   envString("WHISPER_MODEL", "whisper-1"),
				BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !isHTTPURL(c.AI.Whisper.BaseURL) {
		return fmt.Errorf("OPENAI_BASE_URL must start with http:// or https://, got %q", c.AI.Whisper.BaseURL)
	}
	if c.AI.Gemini.BaseURL != "" && !isHTTPURL(c.AI.Gemini.BaseURL) {
		return fmt.Errorf("GEMINI_BASE_URL must start with http:// or https://, got %q", c.AI.Gemini.BaseURL)
	}

	if c.AI.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECS must be positive")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.Server.AccessKeyHash != "" && !strings.HasPrefix(c.Server.AccessKeyHash, "$2") {
		return fmt.Errorf("ACCESS_KEY_HASH must be a bcrypt hash")
	}

	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
