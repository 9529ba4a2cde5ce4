package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/metrics"
	"github.com/KirMaid/CloudCS-Lab1/internal/service"
)

const localAuthType = "authType"

// Auth failure reasons
const (
	AuthFailureMissing = "missing"
	AuthFailureInvalid = "invalid"
)

// BearerAuth requires a bearer token accepted by validator
func BearerAuth(validator service.CredentialValidator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractBearerToken(c)
		if !ok {
			metrics.RecordAuthFailure(AuthFailureMissing)
			return apperrors.Unauthorized(apperrors.MsgNotAuthenticated)
		}

		if !validator.Validate(c.UserContext(), token) {
			metrics.RecordAuthFailure(AuthFailureInvalid)
			logger.Debug("bearer token rejected",
				zap.String("validator", validator.Name()),
				zap.String("request_id", GetRequestID(c)),
			)
			return apperrors.Unauthorized(apperrors.MsgInvalidCredentials)
		}

		c.Locals(localAuthType, validator.Name())
		return c.Next()
	}
}

// GetAuthType returns the validator that authenticated the request
func GetAuthType(c *fiber.Ctx) (string, bool) {
	authType, ok := c.Locals(localAuthType).(string)
	return authType, ok
}

// extractBearerToken returns the credentials of a "Bearer <token>" header.
// A bare "Bearer" scheme yields an empty token that is still present.
func extractBearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	scheme, credentials, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return credentials, true
}
