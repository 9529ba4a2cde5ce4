// Package testutil provides shared test utilities for the inference service.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KirMaid/CloudCS-Lab1/internal/model"
)

// MockProvider mocks model.Provider
type MockProvider struct {
	mock.Mock
}

// Load records the call and returns the configured model
func (m *MockProvider) Load(ctx context.Context, path string) (model.Model, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Model), args.Error(1)
}

// MockModel mocks model.Model
type MockModel struct {
	mock.Mock
}

// Infer records the call and returns the configured label
func (m *MockModel) Infer(ctx context.Context, features map[string]float64) (string, error) {
	args := m.Called(ctx, features)
	return args.String(0), args.Error(1)
}

// Classes returns no labels
func (m *MockModel) Classes() []string {
	return nil
}

// MockCredentialValidator mocks service.CredentialValidator
type MockCredentialValidator struct {
	mock.Mock
}

// Validate records the call and returns the configured verdict
func (m *MockCredentialValidator) Validate(ctx context.Context, token string) bool {
	args := m.Called(ctx, token)
	return args.Bool(0)
}

// Name returns a fixed kind
func (m *MockCredentialValidator) Name() string {
	return "mock"
}

// StubProvider returns a provider whose every model answers label
func StubProvider(label string) model.Provider {
	return model.ProviderFunc(func(context.Context, string) (model.Model, error) {
		return model.StaticModel{Label: label}, nil
	})
}
