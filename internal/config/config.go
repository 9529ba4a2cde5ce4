package config

import (
	"errors"
	"strconv"
	"time"
)

// ErrMissingModelPath is returned when MODEL_PATH is not configured
var ErrMissingModelPath = errors.New("the environment variable $MODEL_PATH is empty")

// Auth modes
const (
	AuthModeStatic        = "static"
	AuthModeHashed        = "hashed"
	AuthModeJWT           = "jwt"
	AuthModeIntrospection = "introspection"
)

// Model providers
const (
	ModelProviderFile   = "file"
	ModelProviderRemote = "remote"
)

// Reload policies
const (
	ReloadPerRequest = "per_request"
	ReloadCached     = "cached"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Auth      AuthConfig
	Model     ModelConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Sentry    SentryConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// AuthConfig selects and configures the credential validator
type AuthConfig struct {
	Mode        string `mapstructure:"mode"`
	StaticToken string `mapstructure:"static_token"`
	TokenHash   string `mapstructure:"token_hash"`

	JWTSecret   string `mapstructure:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience"`

	IntrospectionURL          string        `mapstructure:"introspection_url"`
	IntrospectionClientID     string        `mapstructure:"introspection_client_id"`
	IntrospectionClientSecret string        `mapstructure:"introspection_client_secret"`
	IntrospectionCacheTTL     time.Duration `mapstructure:"introspection_cache_ttl"`
	IntrospectionTimeout      time.Duration `mapstructure:"introspection_timeout"`
}

// ModelConfig holds model provider configuration
type ModelConfig struct {
	Path         string        `mapstructure:"path"`
	Provider     string        `mapstructure:"provider"`
	RemoteURL    string        `mapstructure:"remote_url"`
	ReloadPolicy string        `mapstructure:"reload_policy"`
	CacheSize    int           `mapstructure:"cache_size"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	S3           S3Config      `mapstructure:"s3"`
}

// S3Config holds object storage settings for s3:// model paths
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Window            time.Duration `mapstructure:"window"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// SentryConfig holds Sentry configuration
type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Enabled returns true if a DSN is configured
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// CachesModel returns true if loaded models survive across requests
func (c ModelConfig) CachesModel() bool {
	return c.ReloadPolicy == ReloadCached
}
