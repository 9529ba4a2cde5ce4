package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirMaid/CloudCS-Lab1/internal/domain"
	"github.com/KirMaid/CloudCS-Lab1/internal/model"
)

// ReferenceToken is the default static bearer token
const ReferenceToken = "00000"

// ScenarioABody is the reference observation, an Adelie from Torgersen
const ScenarioABody = `{"culmen_length_mm":36.7,"culmen_depth_mm":19.3,"flipper_length_mm":193.0,` +
	`"body_mass_g":3450.0,"sex":1,"island_Biscoe":0,"island_Dream":0,"island_Torgersen":1}`

// NewTestRecord returns the reference observation as a FeatureRecord
func NewTestRecord() domain.FeatureRecord {
	return domain.FeatureRecord{
		CulmenLengthMM:  36.7,
		CulmenDepthMM:   19.3,
		FlipperLengthMM: 193.0,
		BodyMassG:       3450.0,
		Sex:             1,
		IslandTorgersen: 1,
	}
}

// NewPenguinTree returns a small tree that separates the three species by
// flipper and culmen length.
func NewPenguinTree() *model.DecisionTree {
	return &model.DecisionTree{
		Features: domain.FeatureNames,
		Labels:   []string{domain.SpeciesAdelie, domain.SpeciesChinstrap, domain.SpeciesGentoo},
		Nodes: []model.TreeNode{
			{Feature: 2, Threshold: 206.5, Left: 1, Right: 4},
			{Feature: 0, Threshold: 43.35, Left: 2, Right: 3},
			{Leaf: true, Class: 0},
			{Leaf: true, Class: 1},
			{Leaf: true, Class: 2},
		},
	}
}

// WriteTree serializes tree into dir/name and returns the path.
// The extension of name selects the format.
func WriteTree(t *testing.T, dir, name string, tree *model.DecisionTree) string {
	t.Helper()

	format, err := model.FormatFor(name)
	require.NoError(t, err)
	data, err := model.EncodeTree(tree, format)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
