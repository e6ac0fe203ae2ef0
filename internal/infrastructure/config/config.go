package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Keywords   KeywordsConfig   `mapstructure:"keywords"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Retention  RetentionConfig  `mapstructure:"retention"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds result store settings.
// Driver is either "sqlite" (Path is used) or "postgres".
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds redis settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logger settings.
// Output is "stdout" or "stderr".
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ClassifierConfig points at the model inference service
type ClassifierConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig configures the Gemini backup classifier and embedder
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// AnthropicConfig configures the Anthropic backup classifier
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// KeywordsConfig selects the embedding backend for keyword ranking
type KeywordsConfig struct {
	Embedder  string `mapstructure:"embedder"`
	TopK      int    `mapstructure:"top_k"`
	BatchTopK int    `mapstructure:"batch_top_k"`
}

// ScraperConfig holds article fetching settings
type ScraperConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	PredictPerMinute int `mapstructure:"predict_per_minute"`
	PerHour          int `mapstructure:"per_hour"`
	PerDay           int `mapstructure:"per_day"`
}

// RetentionConfig controls old record cleanup
type RetentionConfig struct {
	Days     int    `mapstructure:"days"`
	Schedule string `mapstructure:"schedule"`
}

// CORSConfig holds allowed origins
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LexiconConfig points at an optional YAML lexicon override
type LexiconConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from config.yaml (optional) and HOAX_* environment variables
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("HOAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/hoax_detection.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "hoax")
	v.SetDefault("database.password", "hoax")
	v.SetDefault("database.dbname", "hoax_detection")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("classifier.base_url", "http://localhost:8000")
	v.SetDefault("classifier.timeout", 30*time.Second)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-3-5-haiku-latest")

	v.SetDefault("keywords.embedder", "ml")
	v.SetDefault("keywords.top_k", 5)
	v.SetDefault("keywords.batch_top_k", 3)

	v.SetDefault("scraper.timeout", 10*time.Second)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	v.SetDefault("ratelimit.predict_per_minute", 10)
	v.SetDefault("ratelimit.per_hour", 50)
	v.SetDefault("ratelimit.per_day", 200)

	v.SetDefault("retention.days", 30)
	v.SetDefault("retention.schedule", "@daily")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("lexicon.path", "")
}
