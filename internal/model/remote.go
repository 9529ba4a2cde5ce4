package model

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/circuitbreaker"
)

// ModelPathHeader tells the remote server which model to run
const ModelPathHeader = "X-Model-Path"

// RemoteProvider delegates inference to an HTTP model server.
// Load does no I/O; every Infer is one POST to the server.
type RemoteProvider struct {
	client  *resty.Client
	url     string
	breaker *circuitbreaker.CircuitBreaker
}

// NewRemoteProvider creates a provider that posts features to url
func NewRemoteProvider(url string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *RemoteProvider {
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.DefaultConfig("model-remote"))
	}
	return &RemoteProvider{
		client:  resty.New().SetTimeout(timeout),
		url:     url,
		breaker: breaker,
	}
}

// Load returns a handle bound to the server and model path
func (p *RemoteProvider) Load(_ context.Context, path string) (Model, error) {
	return &remoteModel{provider: p, path: path}, nil
}

type remoteModel struct {
	provider *RemoteProvider
	path     string
}

type remoteResult struct {
	Species    string `json:"species"`
	Prediction string `json:"prediction"`
}

func (m *remoteModel) Infer(ctx context.Context, features map[string]float64) (string, error) {
	p := m.provider
	return circuitbreaker.ExecuteWithResult(p.breaker, ctx, func() (string, error) {
		var result remoteResult
		resp, err := p.client.R().
			SetContext(ctx).
			SetHeader(ModelPathHeader, m.path).
			SetBody(features).
			SetResult(&result).
			Post(p.url)
		if err != nil {
			return "", fmt.Errorf("remote inference: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return "", fmt.Errorf("remote inference: unexpected status %d", resp.StatusCode())
		}

		label := result.Species
		if label == "" {
			label = result.Prediction
		}
		if label == "" {
			return "", fmt.Errorf("remote inference: response carries no label")
		}
		return label, nil
	})
}

func (m *remoteModel) Classes() []string {
	return nil
}
