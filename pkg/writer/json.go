// Package writer serializes run outcomes for reports and callbacks.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hit-leiden/pkg/model"
)

// WriteJSON writes the outcome as indented JSON to w.
func WriteJSON(w io.Writer, outcome *model.RunOutcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	return nil
}

// WriteJSONFile writes the outcome as indented JSON to a file, creating
// parent directories as needed.
func WriteJSONFile(path string, outcome *model.RunOutcome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()
	return WriteJSON(file, outcome)
}

// WriteBenchmarkJSON writes an incremental benchmark outcome to w.
func WriteBenchmarkJSON(w io.Writer, outcome *model.IncrementalOutcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("failed to encode benchmark outcome: %w", err)
	}
	return nil
}
