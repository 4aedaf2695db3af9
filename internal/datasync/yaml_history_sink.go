package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemo-app/mnemo/internal/review"
)

type exportHistoryRecord struct {
	ID             int64   `yaml:"id"`
	ReviewItemID   string  `yaml:"review_item_id"`
	Grade          int     `yaml:"grade"`
	DurationMs     int     `yaml:"duration_ms"`
	BeforeState    string  `yaml:"before_state"`
	BeforeInterval float64 `yaml:"before_interval"`
	BeforeEase     float64 `yaml:"before_ease"`
	AfterState     string  `yaml:"after_state"`
	AfterInterval  float64 `yaml:"after_interval"`
	AfterEase      float64 `yaml:"after_ease"`
	ReviewedAt     string  `yaml:"reviewed_at"`
}

// YAMLHistorySink writes review history records to a YAML file.
type YAMLHistorySink struct {
	outputDir string
}

// NewYAMLHistorySink creates a new YAMLHistorySink.
func NewYAMLHistorySink(outputDir string) *YAMLHistorySink {
	return &YAMLHistorySink{outputDir: outputDir}
}

// WriteAll writes history records to review_history.yml.
func (s *YAMLHistorySink) WriteAll(records []review.HistoryRecord) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportHistoryRecord, len(records))
	for i, r := range records {
		out[i] = exportHistoryRecord{
			ID:             r.ID,
			ReviewItemID:   r.ReviewItemID,
			Grade:          int(r.Grade),
			DurationMs:     r.DurationMs,
			BeforeState:    string(r.BeforeState),
			BeforeInterval: r.BeforeInterval,
			BeforeEase:     r.BeforeEase,
			AfterState:     string(r.AfterState),
			AfterInterval:  r.AfterInterval,
			AfterEase:      r.AfterEase,
			ReviewedAt:     r.ReviewedAt.Format(time.RFC3339),
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "review_history.yml"), out); err != nil {
		return fmt.Errorf("write review_history.yml: %w", err)
	}
	return nil
}
