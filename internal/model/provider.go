package model

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/metrics"
)

// TreeProvider loads decision trees from any configured source
type TreeProvider struct {
	sources Sources
	logger  *zap.Logger
}

// NewTreeProvider creates a provider over the given sources
func NewTreeProvider(sources Sources, logger *zap.Logger) *TreeProvider {
	if sources.File == nil {
		sources.File = FileSource{}
	}
	return &TreeProvider{
		sources: sources,
		logger:  logger,
	}
}

// Load fetches, decodes and validates the tree at path
func (p *TreeProvider) Load(ctx context.Context, path string) (Model, error) {
	start := time.Now()

	kind, tree, err := p.load(ctx, path)
	metrics.RecordModelLoad(kind, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("model loaded",
		zap.String("path", RedactLocation(path)),
		zap.String("source", kind),
		zap.Int("nodes", len(tree.Nodes)),
		zap.Duration("duration", time.Since(start)),
	)
	return tree, nil
}

func (p *TreeProvider) load(ctx context.Context, path string) (string, *DecisionTree, error) {
	format, err := FormatFor(path)
	if err != nil {
		return "unknown", nil, err
	}

	kind, src, u, err := p.sources.Resolve(path)
	if err != nil {
		if kind == "" {
			kind = "unknown"
		}
		return kind, nil, err
	}

	data, err := src.Fetch(ctx, u)
	if err != nil {
		return kind, nil, err
	}

	tree, err := DecodeTree(data, format)
	if err != nil {
		return kind, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return kind, tree, nil
}
