package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/penguin")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")
	cfg.Server.ReadTimeout = v.GetDuration("server_read_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server_write_timeout")
	cfg.Server.ShutdownTimeout = v.GetDuration("server_shutdown_timeout")
	cfg.Server.AllowedOrigins = splitList(v.GetString("cors_allowed_origins"))

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")
	cfg.Log.File = v.GetString("log_file")

	// Auth
	cfg.Auth.Mode = strings.ToLower(v.GetString("auth_mode"))
	cfg.Auth.StaticToken = v.GetString("auth_static_token")
	cfg.Auth.TokenHash = v.GetString("auth_token_hash")
	cfg.Auth.JWTSecret = v.GetString("auth_jwt_secret")
	cfg.Auth.JWTIssuer = v.GetString("auth_jwt_issuer")
	cfg.Auth.JWTAudience = v.GetString("auth_jwt_audience")
	cfg.Auth.IntrospectionURL = v.GetString("auth_introspection_url")
	cfg.Auth.IntrospectionClientID = v.GetString("auth_introspection_client_id")
	cfg.Auth.IntrospectionClientSecret = v.GetString("auth_introspection_client_secret")
	cfg.Auth.IntrospectionCacheTTL = v.GetDuration("auth_introspection_cache_ttl")
	cfg.Auth.IntrospectionTimeout = v.GetDuration("auth_introspection_timeout")

	// Model
	cfg.Model.Path = strings.TrimSpace(v.GetString("model_path"))
	cfg.Model.Provider = strings.ToLower(v.GetString("model_provider"))
	cfg.Model.RemoteURL = v.GetString("model_remote_url")
	cfg.Model.ReloadPolicy = strings.ToLower(v.GetString("model_reload_policy"))
	cfg.Model.CacheSize = v.GetInt("model_cache_size")
	cfg.Model.FetchTimeout = v.GetDuration("model_fetch_timeout")
	cfg.Model.S3.Endpoint = v.GetString("model_s3_endpoint")
	cfg.Model.S3.AccessKey = v.GetString("model_s3_access_key")
	cfg.Model.S3.SecretKey = v.GetString("model_s3_secret_key")
	cfg.Model.S3.UseSSL = v.GetBool("model_s3_use_ssl")

	// Rate Limiting
	cfg.RateLimit.Enabled = v.GetBool("rate_limit_enabled")
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("rate_limit_rps")
	cfg.RateLimit.Burst = v.GetInt("rate_limit_burst")
	cfg.RateLimit.Window = v.GetDuration("rate_limit_window")

	// Redis
	cfg.Redis.URL = v.GetString("redis_url")

	// Sentry
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	cfg.Sentry.SampleRate = v.GetFloat64("sentry_sample_rate")
	if cfg.Sentry.Environment == "" {
		cfg.Sentry.Environment = cfg.Server.Env
	}

	// Metrics
	cfg.Metrics.Enabled = v.GetBool("metrics_enabled")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8000)
	v.SetDefault("server_env", "development")
	v.SetDefault("server_read_timeout", 30*time.Second)
	v.SetDefault("server_write_timeout", 30*time.Second)
	v.SetDefault("server_shutdown_timeout", 10*time.Second)
	v.SetDefault("cors_allowed_origins", "*")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_file", "")

	// Auth defaults
	v.SetDefault("auth_mode", AuthModeStatic)
	v.SetDefault("auth_static_token", "00000")
	v.SetDefault("auth_introspection_cache_ttl", 30*time.Second)
	v.SetDefault("auth_introspection_timeout", 5*time.Second)

	// Model defaults
	v.SetDefault("model_path", "")
	v.SetDefault("model_provider", ModelProviderFile)
	v.SetDefault("model_reload_policy", ReloadPerRequest)
	v.SetDefault("model_cache_size", 4)
	v.SetDefault("model_fetch_timeout", 30*time.Second)
	v.SetDefault("model_s3_use_ssl", true)

	// Rate limiting defaults
	v.SetDefault("rate_limit_enabled", false)
	v.SetDefault("rate_limit_rps", 50)
	v.SetDefault("rate_limit_burst", 100)
	v.SetDefault("rate_limit_window", time.Second)

	// Sentry defaults
	v.SetDefault("sentry_sample_rate", 1.0)

	// Metrics defaults
	v.SetDefault("metrics_enabled", true)
}

func validate(cfg *Config) error {
	if cfg.Model.Path == "" {
		return ErrMissingModelPath
	}

	switch cfg.Model.Provider {
	case ModelProviderFile:
	case ModelProviderRemote:
		if cfg.Model.RemoteURL == "" {
			return fmt.Errorf("MODEL_REMOTE_URL is required when MODEL_PROVIDER=%s", ModelProviderRemote)
		}
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", cfg.Model.Provider)
	}

	switch cfg.Model.ReloadPolicy {
	case ReloadPerRequest, ReloadCached:
	default:
		return fmt.Errorf("unknown MODEL_RELOAD_POLICY %q", cfg.Model.ReloadPolicy)
	}
	if cfg.Model.CachesModel() && cfg.Model.CacheSize <= 0 {
		return fmt.Errorf("MODEL_CACHE_SIZE must be positive, got %d", cfg.Model.CacheSize)
	}

	switch cfg.Auth.Mode {
	case AuthModeStatic:
		if cfg.Auth.StaticToken == "" {
			return fmt.Errorf("AUTH_STATIC_TOKEN must not be empty")
		}
	case AuthModeHashed:
		if cfg.Auth.TokenHash == "" {
			return fmt.Errorf("AUTH_TOKEN_HASH is required when AUTH_MODE=%s", AuthModeHashed)
		}
	case AuthModeJWT:
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_MODE=%s", AuthModeJWT)
		}
	case AuthModeIntrospection:
		if cfg.Auth.IntrospectionURL == "" {
			return fmt.Errorf("AUTH_INTROSPECTION_URL is required when AUTH_MODE=%s", AuthModeIntrospection)
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", cfg.Auth.Mode)
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive RATE_LIMIT_RPS and RATE_LIMIT_BURST")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
