package datasync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mnemo-app/mnemo/internal/card"
)

type exportCard struct {
	ID        string `yaml:"id"`
	Front     string `yaml:"front"`
	Back      string `yaml:"back"`
	Category  string `yaml:"category,omitempty"`
	CreatedAt string `yaml:"created_at"`
}

// YAMLCardSink writes cards to a YAML file.
type YAMLCardSink struct {
	outputDir string
}

// NewYAMLCardSink creates a new YAMLCardSink.
func NewYAMLCardSink(outputDir string) *YAMLCardSink {
	return &YAMLCardSink{outputDir: outputDir}
}

// WriteAll writes cards to cards.yml.
func (s *YAMLCardSink) WriteAll(cards []card.Card) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportCard, len(cards))
	for i, c := range cards {
		out[i] = exportCard{
			ID:        c.ID,
			Front:     c.Front,
			Back:      c.Back,
			Category:  c.Category,
			CreatedAt: c.CreatedAt.Format("2006-01-02"),
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "cards.yml"), out); err != nil {
		return fmt.Errorf("write cards.yml: %w", err)
	}
	return nil
}
