package model

import (
	"context"
	"fmt"
)

// TreeNode is one node of a serialized decision tree.
// Internal nodes route on Feature/Threshold; leaves carry a Class index.
type TreeNode struct {
	Feature   int     `json:"feature" yaml:"feature"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Left      int     `json:"left" yaml:"left"`
	Right     int     `json:"right" yaml:"right"`
	Class     int     `json:"class" yaml:"class"`
	Leaf      bool    `json:"leaf" yaml:"leaf"`
}

// DecisionTree is a binary classification tree over named features.
// Nodes are stored flat with children after their parent; node 0 is the root.
type DecisionTree struct {
	Features []string   `json:"features" yaml:"features"`
	Labels   []string   `json:"classes" yaml:"classes"`
	Nodes    []TreeNode `json:"nodes" yaml:"nodes"`
}

// Validate checks that every index in the tree is in range and that the tree
// is acyclic.
func (t *DecisionTree) Validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidTree)
	}
	if len(t.Labels) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidTree)
	}

	for i, n := range t.Nodes {
		if n.Leaf {
			if n.Class < 0 || n.Class >= len(t.Labels) {
				return fmt.Errorf("%w: node %d class %d out of range", ErrInvalidTree, i, n.Class)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= len(t.Features) {
			return fmt.Errorf("%w: node %d feature %d out of range", ErrInvalidTree, i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("%w: node %d child %d out of range", ErrInvalidTree, i, child)
			}
		}
	}
	return nil
}

// Infer walks the tree, going left when the feature value is <= threshold
func (t *DecisionTree) Infer(ctx context.Context, features map[string]float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Leaf {
			return t.Labels[node.Class], nil
		}

		name := t.Features[node.Feature]
		value, ok := features[name]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}

		if value <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// Classes returns the labels the tree can produce
func (t *DecisionTree) Classes() []string {
	out := make([]string, len(t.Labels))
	copy(out, t.Labels)
	return out
}

// Depth returns the length of the longest root-to-leaf path
func (t *DecisionTree) Depth() int {
	var walk func(idx int) int
	walk = func(idx int) int {
		n := t.Nodes[idx]
		if n.Leaf {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}
