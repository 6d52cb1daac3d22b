package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names inside the models directory.
const (
	FileICU         = "model_icu.json"
	FileInpatient   = "model_inpatient.json"
	FileCritical    = "model_critical.json"
	FileDisease     = "model_disease.json"
	FileFeatureCols = "feature_cols.json"
	FileMeta        = "meta.json"
)

// Meta is the training-run metadata persisted next to the models.
type Meta struct {
	RandomState       int64     `json:"random_state"`
	CriticalThreshold float64   `json:"critical_threshold"`
	SplitDate         string    `json:"split_date"`
	Features          []string  `json:"features"`
	RunID             string    `json:"run_id"`
	TrainedAt         time.Time `json:"trained_at"`
	TrainingRows      int       `json:"training_rows"`
}

// Artifacts bundles everything a forecast run needs: the four models, the
// ordered feature list, and the metadata.
type Artifacts struct {
	ICU       *ForestModel
	Inpatient *ForestModel
	Critical  *LogisticModel
	Disease   *LinearModel

	FeatureCols []string
	Meta        Meta
}

// MissingArtifactError reports an absent model artifact with the remediation
// a batch operator needs.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("model artifact not found at %s: run `go run ./cmd/train` to produce model artifacts", e.Path)
}

// SaveArtifacts writes all artifact files into dir, creating it if needed.
func SaveArtifacts(dir string, art *Artifacts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	files := map[string]any{
		FileICU:         art.ICU,
		FileInpatient:   art.Inpatient,
		FileCritical:    art.Critical,
		FileDisease:     art.Disease,
		FileFeatureCols: art.FeatureCols,
		FileMeta:        art.Meta,
	}
	for name, v := range files {
		if err := writeJSON(filepath.Join(dir, name), v); err != nil {
			return err
		}
	}
	return nil
}

// LoadArtifacts reads all artifact files from dir. A missing file produces a
// MissingArtifactError naming the expected path.
func LoadArtifacts(dir string) (*Artifacts, error) {
	art := &Artifacts{
		ICU:       &ForestModel{},
		Inpatient: &ForestModel{},
		Critical:  &LogisticModel{},
		Disease:   &LinearModel{},
	}

	files := map[string]any{
		FileICU:         art.ICU,
		FileInpatient:   art.Inpatient,
		FileCritical:    art.Critical,
		FileDisease:     art.Disease,
		FileFeatureCols: &art.FeatureCols,
		FileMeta:        &art.Meta,
	}
	for name, v := range files {
		if err := readJSON(filepath.Join(dir, name), v); err != nil {
			return nil, err
		}
	}
	return art, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &MissingArtifactError{Path: path}
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
