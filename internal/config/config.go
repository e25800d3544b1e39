package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the journal-api configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Generation    GenerationConfig    `yaml:"generation"`
	SearchIndex   SearchIndexConfig   `yaml:"search_index"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	CORS          CORSConfig          `yaml:"cors"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Memory        MemoryConfig        `yaml:"memory"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds JWT validation settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // empty disables authentication (local only)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GenerationConfig holds text generation provider settings.
type GenerationConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

// SearchIndexConfig holds hosted search index settings.
type SearchIndexConfig struct {
	AppID      string `yaml:"app_id"`
	APIKey     string `yaml:"api_key"`
	SearchKey  string `yaml:"search_key"` // falls back to APIKey when empty
	IndexName  string `yaml:"index_name"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// TranscriptionConfig holds streaming transcription provider settings.
type TranscriptionConfig struct {
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
	ExpiresSec int    `yaml:"expires_sec"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig holds per-IP rate limiting settings.
// Auth endpoints get a stricter bucket to slow down brute force.
type RateLimitConfig struct {
	RequestsPerMinute     int  `yaml:"requests_per_minute"`
	AuthRequestsPerMinute int  `yaml:"auth_requests_per_minute"`
	Disabled              bool `yaml:"disabled"`
}

// MemoryConfig holds query memory log settings.
type MemoryConfig struct {
	Key string `yaml:"key"` // storage key of the memory log
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 15
	}
	if c.Generation.MaxOutputTokens <= 0 {
		c.Generation.MaxOutputTokens = 512
	}
	if c.SearchIndex.TimeoutSec <= 0 {
		c.SearchIndex.TimeoutSec = 10
	}
	if c.SearchIndex.IndexName == "" {
		c.SearchIndex.IndexName = "journal_entries"
	}
	if c.SearchIndex.SearchKey == "" {
		c.SearchIndex.SearchKey = c.SearchIndex.APIKey
	}
	if c.Transcription.TimeoutSec <= 0 {
		c.Transcription.TimeoutSec = 10
	}
	if c.Transcription.ExpiresSec <= 0 {
		c.Transcription.ExpiresSec = 600
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		c.RateLimit.RequestsPerMinute = 100
	}
	if c.RateLimit.AuthRequestsPerMinute <= 0 {
		c.RateLimit.AuthRequestsPerMinute = 10
	}
	if c.Memory.Key == "" {
		c.Memory.Key = "journal:search_memory"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.SearchIndex.AppID == "" {
		return fmt.Errorf("search_index.app_id is required")
	}
	if c.SearchIndex.APIKey == "" {
		return fmt.Errorf("search_index.api_key is required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
