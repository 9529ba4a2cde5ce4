package model

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies a model serialization format
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the location's extension
func FormatFor(location string) (Format, error) {
	ext := filepath.Ext(location)
	if locationScheme(location) != "" {
		// Drop the query and fragment so https://host/tree.json?v=2 still matches
		if i := strings.IndexAny(location, "?#"); i >= 0 {
			location = location[:i]
		}
		ext = path.Ext(location)
	}

	switch strings.ToLower(ext) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeTree decodes and validates a decision tree
func DecodeTree(data []byte, format Format) (*DecisionTree, error) {
	var tree DecisionTree

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("decode json model: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("decode yaml model: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &tree, nil
}

// EncodeTree serializes a decision tree
func EncodeTree(tree *DecisionTree, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tree, "", "  ")
	case FormatYAML:
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
