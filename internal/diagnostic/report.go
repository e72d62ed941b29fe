package diagnostic

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// Report summarizes one conversion run.
type Report struct {
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	Templates string `json:"templates"`
	// SourceVersion and SDKVersion are read from the tagfile header.
	SourceVersion string      `json:"sourceVersion,omitempty"`
	SDKVersion    string      `json:"sdkVersion,omitempty"`
	Started       time.Time   `json:"started"`
	Duration      string      `json:"duration"`
	Converted     int         `json:"converted"`
	Skipped       []string    `json:"skipped,omitempty"`
	Failed        bool        `json:"failed"`
	Diags         Diagnostics `json:"diagnostics"`
}

// MarshalReport serializes a report as indented JSON.
func MarshalReport(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteReport writes a report to the given path.
func WriteReport(r *Report, path string) error {
	data, err := MarshalReport(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return nil
}
