package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/config"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/circuitbreaker"
)

const introspectionCacheSize = 1024

// IntrospectionConfig configures OAuth2 token introspection (RFC 7662)
type IntrospectionConfig struct {
	URL          string
	ClientID     string
	ClientSecret string
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// IntrospectionValidator asks an authorization server whether a token is active.
// Answers are cached per token for CacheTTL.
type IntrospectionValidator struct {
	cfg     IntrospectionConfig
	client  *resty.Client
	cache   *expirable.LRU[string, bool]
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

type introspectionResponse struct {
	Active bool `json:"active"`
}

// NewIntrospectionValidator creates an introspection validator
func NewIntrospectionValidator(cfg IntrospectionConfig, logger *zap.Logger) *IntrospectionValidator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := resty.New().SetTimeout(cfg.Timeout)
	if cfg.ClientID != "" {
		client.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	}

	v := &IntrospectionValidator{
		cfg:    cfg,
		client: client,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:        "token-introspection",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		logger: logger,
	}
	if cfg.CacheTTL > 0 {
		v.cache = expirable.NewLRU[string, bool](introspectionCacheSize, nil, cfg.CacheTTL)
	}
	return v
}

// Validate reports whether the authorization server considers token active
func (v *IntrospectionValidator) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	key := tokenKey(token)
	if v.cache != nil {
		if active, ok := v.cache.Get(key); ok {
			return active
		}
	}

	active, err := circuitbreaker.ExecuteWithResult(v.breaker, ctx, func() (bool, error) {
		return v.introspect(ctx, token)
	})
	if err != nil {
		v.logger.Warn("token introspection failed", zap.Error(err))
		return false
	}

	if v.cache != nil {
		v.cache.Add(key, active)
	}
	return active
}

func (v *IntrospectionValidator) introspect(ctx context.Context, token string) (bool, error) {
	var result introspectionResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"token":           token,
			"token_type_hint": "access_token",
		}).
		SetResult(&result).
		Post(v.cfg.URL)
	if err != nil {
		return false, fmt.Errorf("introspection request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("introspection request: unexpected status %d", resp.StatusCode())
	}
	return result.Active, nil
}

// Name returns the validator kind
func (v *IntrospectionValidator) Name() string {
	return config.AuthModeIntrospection
}

// tokenKey keeps raw tokens out of the cache
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
