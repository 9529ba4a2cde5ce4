// Package model loads serialized classifiers and runs inference on feature
// records.
//
// A Provider turns a location into a Model. Locations are plain filesystem
// paths or URLs with a file, s3, http or https scheme. The file extension
// picks the codec (.json or .yaml/.yml).
//
// Providers are safe for concurrent use. Models returned by the providers in
// this package are immutable and may be shared between requests.
package model

import (
	"context"
	"errors"
)

var (
	// ErrUnknownSource is returned for a location with an unsupported scheme
	ErrUnknownSource = errors.New("unsupported model location scheme")
	// ErrSourceNotConfigured is returned when a scheme is known but its backend is not set up
	ErrSourceNotConfigured = errors.New("model source not configured")
	// ErrUnsupportedFormat is returned for a model file with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrInvalidTree is returned when a decoded tree fails structural checks
	ErrInvalidTree = errors.New("invalid decision tree")
	// ErrMissingFeature is returned when inference input lacks a feature the model reads
	ErrMissingFeature = errors.New("missing feature")
)

// Model is a loaded classifier
type Model interface {
	// Infer returns the label for one observation
	Infer(ctx context.Context, features map[string]float64) (string, error)
	// Classes returns the labels the model can produce, if known
	Classes() []string
}

// Provider loads models
type Provider interface {
	Load(ctx context.Context, path string) (Model, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, path string) (Model, error)

// Load calls f
func (f ProviderFunc) Load(ctx context.Context, path string) (Model, error) {
	return f(ctx, path)
}

// StaticModel always returns the same label. It stands in for a real model in
// tests and smoke checks.
type StaticModel struct {
	Label string
}

// Infer returns the fixed label
func (m StaticModel) Infer(_ context.Context, _ map[string]float64) (string, error) {
	return m.Label, nil
}

// Classes returns the fixed label
func (m StaticModel) Classes() []string {
	return []string{m.Label}
}
