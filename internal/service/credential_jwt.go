package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/config"
)

// JWTValidatorConfig configures JWT validation
type JWTValidatorConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// JWTValidator accepts HMAC-signed JWTs with valid registered claims
type JWTValidator struct {
	secret []byte
	parser *jwt.Parser
	logger *zap.Logger
}

// NewJWTValidator creates a JWT validator
func NewJWTValidator(cfg JWTValidatorConfig, logger *zap.Logger) *JWTValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTValidator{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
		logger: logger,
	}
}

// Validate parses and verifies the token
func (v *JWTValidator) Validate(_ context.Context, token string) bool {
	if token == "" {
		return false
	}

	parsed, err := v.parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Debug("jwt rejected", zap.Error(err))
		return false
	}
	return parsed.Valid
}

// Name returns the validator kind
func (v *JWTValidator) Name() string {
	return config.AuthModeJWT
}
