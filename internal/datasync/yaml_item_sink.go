package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemo-app/mnemo/internal/scheduler"
)

type exportReviewItem struct {
	ID             string  `yaml:"id"`
	CardID         string  `yaml:"card_id"`
	Direction      string  `yaml:"direction"`
	State          string  `yaml:"state"`
	IntervalAmount float64 `yaml:"interval_amount"`
	IntervalUnit   string  `yaml:"interval_unit"`
	EaseFactor     float64 `yaml:"ease_factor"`
	Repetitions    int     `yaml:"repetitions"`
	DueDate        string  `yaml:"due_date"`
	LastReviewed   string  `yaml:"last_reviewed,omitempty"`
}

// YAMLItemSink writes review item scheduling state to a YAML file.
type YAMLItemSink struct {
	outputDir string
}

// NewYAMLItemSink creates a new YAMLItemSink.
func NewYAMLItemSink(outputDir string) *YAMLItemSink {
	return &YAMLItemSink{outputDir: outputDir}
}

// WriteAll writes review items to review_items.yml.
func (s *YAMLItemSink) WriteAll(items []scheduler.ReviewItem) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportReviewItem, len(items))
	for i, item := range items {
		var lastReviewed string
		if item.LastReviewed != nil {
			lastReviewed = item.LastReviewed.Format(time.RFC3339)
		}
		out[i] = exportReviewItem{
			ID:             item.ID,
			CardID:         item.CardID,
			Direction:      string(item.Direction),
			State:          string(item.State),
			IntervalAmount: item.IntervalAmount,
			IntervalUnit:   string(item.IntervalUnit),
			EaseFactor:     item.EaseFactor,
			Repetitions:    item.Repetitions,
			DueDate:        item.DueDate.Format(time.RFC3339),
			LastReviewed:   lastReviewed,
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "review_items.yml"), out); err != nil {
		return fmt.Errorf("write review_items.yml: %w", err)
	}
	return nil
}
