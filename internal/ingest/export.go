package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadExport reads a JSON workspace export produced by the fetch layer.
// The export is a single object with "runs", "projects" and "users"
// arrays; unknown top-level keys are ignored so older exports keep
// loading.
func LoadExport(path string) (*RawData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var raw RawData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	return &raw, nil
}
