package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Aasim47/vendorconex/pkg/config"
)

// Config holds all configuration for the vendorconex server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"PORT" envDefault:"5000"`

	// MongoDB
	MongoURI         string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase    string `env:"MONGO_DATABASE" envDefault:"vendorconex"`
	MongoMaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
	MongoMinPoolSize uint64 `env:"MONGO_MIN_POOL_SIZE" envDefault:"5"`

	// Redis (product cache)
	RedisHost        string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	RedisEnabled     bool   `env:"REDIS_ENABLED" envDefault:"true"`
	ProductCacheTTLs int    `env:"PRODUCT_CACHE_TTL_SECONDS" envDefault:"300"`

	// JWT
	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"1"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`

	// Text-completion upstream for the chat relay
	ChatAPIURL   string `env:"CHAT_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"`
	ChatAPIKey   string `env:"CHAT_API_KEY,required"`
	ChatTimeoutS int    `env:"CHAT_TIMEOUT_SECONDS" envDefault:"30"`

	// Chat rate limiting (per client IP)
	ChatRateLimitRPS   int `env:"CHAT_RATE_LIMIT_RPS" envDefault:"1"`
	ChatRateLimitBurst int `env:"CHAT_RATE_LIMIT_BURST" envDefault:"5"`

	// Circuit breaker settings for the chat upstream
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTExpiryHours < 1 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when Kafka is enabled")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.ChatAPIURL == "" {
		return fmt.Errorf("CHAT_API_URL is required")
	}
	if _, err := url.ParseRequestURI(c.ChatAPIURL); err != nil {
		return fmt.Errorf("invalid CHAT_API_URL %q: %w", c.ChatAPIURL, err)
	}
	if c.ChatRateLimitRPS < 1 || c.ChatRateLimitBurst < 1 {
		return fmt.Errorf("chat rate limit rps and burst must be positive")
	}
	return nil
}

// JWTExpiry returns the access token lifetime as a duration.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// ChatTimeout returns the chat upstream request timeout as a duration.
func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.ChatTimeoutS) * time.Second
}

// ProductCacheTTL returns the product cache TTL as a duration.
func (c *Config) ProductCacheTTL() time.Duration {
	return time.Duration(c.ProductCacheTTLs) * time.Second
}
