package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifacts() *Artifacts {
	return &Artifacts{
		ICU: &ForestModel{
			Config: ForestConfig{NumTrees: 1, MaxDepth: 1, Seed: 42},
			Trees:  []*TreeNode{{Feature: -1, Value: 75}},
		},
		Inpatient: &ForestModel{
			Config: ForestConfig{NumTrees: 1, MaxDepth: 1, Seed: 42},
			Trees:  []*TreeNode{{Feature: 0, Threshold: 50, Left: &TreeNode{Feature: -1, Value: 60}, Right: &TreeNode{Feature: -1, Value: 90}}},
		},
		Critical: &LogisticModel{
			Intercept: -1.5,
			Coef:      []float64{0.4, -0.2},
			Means:     []float64{50, 60},
			Stds:      []float64{10, 12},
		},
		Disease:     &LinearModel{Intercept: 100, Coef: []float64{2, 3}},
		FeatureCols: append([]string(nil), FeatureCols...),
		Meta: Meta{
			RandomState:       42,
			CriticalThreshold: DefaultCriticalThreshold,
			SplitDate:         "2025-02-01",
			Features:          append([]string(nil), FeatureCols...),
			RunID:             "run-123",
			TrainedAt:         time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
			TrainingRows:      240,
		},
	}
}

func TestSaveLoadArtifacts_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	art := testArtifacts()

	require.NoError(t, SaveArtifacts(dir, art))

	for _, name := range []string{FileICU, FileInpatient, FileCritical, FileDisease, FileFeatureCols, FileMeta} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected artifact %s", name)
	}

	loaded, err := LoadArtifacts(dir)
	require.NoError(t, err)

	assert.Equal(t, art.ICU, loaded.ICU)
	assert.Equal(t, art.Inpatient, loaded.Inpatient)
	assert.Equal(t, art.Critical, loaded.Critical)
	assert.Equal(t, art.Disease, loaded.Disease)
	assert.Equal(t, art.FeatureCols, loaded.FeatureCols)
	assert.Equal(t, art.Meta, loaded.Meta)
}

func TestLoadArtifacts_MissingFile(t *testing.T) {
	dir := t.TempDir()
	art := testArtifacts()
	require.NoError(t, SaveArtifacts(dir, art))
	require.NoError(t, os.Remove(filepath.Join(dir, FileCritical)))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, filepath.Join(dir, FileCritical), missing.Path)
	assert.Contains(t, err.Error(), "cmd/train")
}

func TestLoadArtifacts_EmptyDir(t *testing.T) {
	_, err := LoadArtifacts(t.TempDir())

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
}

func TestLoadArtifacts_CorruptJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveArtifacts(dir, testArtifacts()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileMeta), []byte("{"), 0o644))

	_, err := LoadArtifacts(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileMeta)
}
