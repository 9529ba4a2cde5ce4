package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/KirMaid/CloudCS-Lab1/internal/config"
)

// CredentialValidator decides whether a bearer token is authentic.
// Validate never fails: any internal problem is logged and reported as false.
type CredentialValidator interface {
	Validate(ctx context.Context, token string) bool
	Name() string
}

// StaticTokenValidator accepts exactly one configured token.
// The comparison is plain string equality.
type StaticTokenValidator struct {
	token string
}

// NewStaticTokenValidator creates a validator for a single reference token
func NewStaticTokenValidator(token string) *StaticTokenValidator {
	return &StaticTokenValidator{token: token}
}

// Validate reports whether token equals the reference token
func (v *StaticTokenValidator) Validate(_ context.Context, token string) bool {
	return token != "" && token == v.token
}

// Name returns the validator kind
func (v *StaticTokenValidator) Name() string {
	return config.AuthModeStatic
}

// HashedTokenValidator accepts the token whose bcrypt hash is configured,
// so the plaintext token never has to be stored.
type HashedTokenValidator struct {
	hash   []byte
	logger *zap.Logger
}

// NewHashedTokenValidator creates a validator from a bcrypt hash
func NewHashedTokenValidator(hash string, logger *zap.Logger) (*HashedTokenValidator, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid bcrypt token hash: %w", err)
	}
	return &HashedTokenValidator{hash: []byte(hash), logger: logger}, nil
}

// Validate reports whether token matches the hash
func (v *HashedTokenValidator) Validate(_ context.Context, token string) bool {
	if token == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(token))
	if err != nil && err != bcrypt.ErrMismatchedHashAndPassword {
		v.logger.Warn("bcrypt comparison failed", zap.Error(err))
	}
	return err == nil
}

// Name returns the validator kind
func (v *HashedTokenValidator) Name() string {
	return config.AuthModeHashed
}

// NewCredentialValidator builds the validator selected by cfg.Mode
func NewCredentialValidator(cfg config.AuthConfig, logger *zap.Logger) (CredentialValidator, error) {
	switch cfg.Mode {
	case config.AuthModeStatic, "":
		return NewStaticTokenValidator(cfg.StaticToken), nil
	case config.AuthModeHashed:
		v, err := NewHashedTokenValidator(cfg.TokenHash, logger)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthModeJWT:
		return NewJWTValidator(JWTValidatorConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}, logger), nil
	case config.AuthModeIntrospection:
		return NewIntrospectionValidator(IntrospectionConfig{
			URL:          cfg.IntrospectionURL,
			ClientID:     cfg.IntrospectionClientID,
			ClientSecret: cfg.IntrospectionClientSecret,
			CacheTTL:     cfg.IntrospectionCacheTTL,
			Timeout:      cfg.IntrospectionTimeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
