package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/domain"
	"github.com/KirMaid/CloudCS-Lab1/internal/model"
	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/metrics"
)

// PredictionService acquires the configured model and classifies records
type PredictionService struct {
	provider  model.Provider
	modelPath string
	logger    *zap.Logger
}

// NewPredictionService creates a prediction service.
// Whether the model is reloaded per call depends on the provider passed in.
func NewPredictionService(provider model.Provider, modelPath string, logger *zap.Logger) *PredictionService {
	return &PredictionService{
		provider:  provider,
		modelPath: modelPath,
		logger:    logger,
	}
}

// Predict loads the model and runs inference on record
func (s *PredictionService) Predict(ctx context.Context, record domain.FeatureRecord) (*domain.Prediction, error) {
	m, err := s.provider.Load(ctx, s.modelPath)
	if err != nil {
		return nil, apperrors.Model(fmt.Errorf("load model %s: %w", s.modelPath, err))
	}

	label, err := m.Infer(ctx, record.AsMap())
	if err != nil {
		metrics.RecordInferenceError()
		return nil, apperrors.Model(fmt.Errorf("infer: %w", err))
	}

	metrics.RecordPrediction(label)
	return &domain.Prediction{Species: label}, nil
}

// ModelPath returns the configured model location
func (s *PredictionService) ModelPath() string {
	return s.modelPath
}
