package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/domain"
	"github.com/KirMaid/CloudCS-Lab1/internal/dto"
	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
)

// Predictor classifies a feature record
type Predictor interface {
	Predict(ctx context.Context, record domain.FeatureRecord) (*domain.Prediction, error)
}

// PredictionHandler handles POST /predictions
type PredictionHandler struct {
	predictor Predictor
	logger    *zap.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictor Predictor, logger *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// Predict validates the body, runs inference and returns the species
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	record, err := dto.ParseFeatureRecord(c.Body())
	if err != nil {
		if apperrors.IsUnprocessable(err) {
			h.logger.Debug("prediction request rejected",
				zap.Error(err),
				zap.String("request_id", middleware.GetRequestID(c)),
			)
		}
		return err
	}

	prediction, err := h.predictor.Predict(c.UserContext(), record)
	if err != nil {
		return err
	}

	authType, _ := middleware.GetAuthType(c)
	h.logger.Debug("prediction served",
		zap.String("species", prediction.Species),
		zap.String("auth_type", authType),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	return c.JSON(dto.PredictionResponse{Species: prediction.Species})
}
