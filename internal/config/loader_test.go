package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingModelPath(t *testing.T) {
	t.Setenv("MODEL_PATH", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingModelPath)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODEL_PATH", "/models/penguins.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/models/penguins.json", cfg.Model.Path)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, AuthModeStatic, cfg.Auth.Mode)
	assert.Equal(t, "00000", cfg.Auth.StaticToken)
	assert.Equal(t, ModelProviderFile, cfg.Model.Provider)
	assert.Equal(t, ReloadPerRequest, cfg.Model.ReloadPolicy)
	assert.False(t, cfg.Model.CachesModel())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Sentry.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODEL_PATH", "s3://models/penguins.yaml")
	t.Setenv("MODEL_RELOAD_POLICY", "CACHED")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("AUTH_INTROSPECTION_CACHE_TTL", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ReloadCached, cfg.Model.ReloadPolicy)
	assert.True(t, cfg.Model.CachesModel())
	assert.Equal(t, AuthModeJWT, cfg.Auth.Mode)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "production", cfg.Sentry.Environment)
	assert.Equal(t, 5*time.Second, cfg.Auth.IntrospectionCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Auth: AuthConfig{Mode: AuthModeStatic, StaticToken: "00000"},
			Model: ModelConfig{
				Path:         "model.json",
				Provider:     ModelProviderFile,
				ReloadPolicy: ReloadPerRequest,
				CacheSize:    1,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Auth.Mode = "basic" },
			wantErr: "unknown AUTH_MODE",
		},
		{
			name:    "empty static token",
			mutate:  func(c *Config) { c.Auth.StaticToken = "" },
			wantErr: "AUTH_STATIC_TOKEN",
		},
		{
			name:    "hashed without hash",
			mutate:  func(c *Config) { c.Auth.Mode = AuthModeHashed },
			wantErr: "AUTH_TOKEN_HASH",
		},
		{
			name:    "jwt without secret",
			mutate:  func(c *Config) { c.Auth.Mode = AuthModeJWT },
			wantErr: "AUTH_JWT_SECRET",
		},
		{
			name:    "introspection without url",
			mutate:  func(c *Config) { c.Auth.Mode = AuthModeIntrospection },
			wantErr: "AUTH_INTROSPECTION_URL",
		},
		{
			name:    "remote provider without url",
			mutate:  func(c *Config) { c.Model.Provider = ModelProviderRemote },
			wantErr: "MODEL_REMOTE_URL",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Model.Provider = "onnx" },
			wantErr: "unknown MODEL_PROVIDER",
		},
		{
			name:    "unknown reload policy",
			mutate:  func(c *Config) { c.Model.ReloadPolicy = "never" },
			wantErr: "unknown MODEL_RELOAD_POLICY",
		},
		{
			name: "cached with zero cache size",
			mutate: func(c *Config) {
				c.Model.ReloadPolicy = ReloadCached
				c.Model.CacheSize = 0
			},
			wantErr: "MODEL_CACHE_SIZE",
		},
		{
			name: "rate limit without rps",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Burst = 10
			},
			wantErr: "RATE_LIMIT_RPS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
