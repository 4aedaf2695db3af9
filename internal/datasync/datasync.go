// Package datasync provides import/export between YAML backup files and
// the database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mnemo-app/mnemo/internal/card"
)

// ImportResult tracks counts for one import run.
type ImportResult struct {
	CardsNew     int
	CardsSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer reads YAML card backups and writes missing cards to the
// database. Review state is not restored; imported cards start over as
// new items.
type Importer struct {
	cards  card.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(cards card.Repository, writer io.Writer) *Importer {
	return &Importer{cards: cards, writer: writer}
}

type cardKey struct{ front, back string }

// ImportCards imports cards from a cards.yml backup. Cards the user
// already has, matched by front and back text, are skipped.
func (imp *Importer) ImportCards(ctx context.Context, userID, path string, opts ImportOptions) (*ImportResult, error) {
	var backup []exportCard
	if err := readYAML(path, &backup); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	existing, err := imp.cards.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing cards: %w", err)
	}
	known := make(map[cardKey]bool, len(existing))
	for _, c := range existing {
		known[cardKey{c.Front, c.Back}] = true
	}

	result := &ImportResult{}
	for _, src := range backup {
		key := cardKey{src.Front, src.Back}
		if known[key] {
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", src.Front)
			result.CardsSkipped++
			continue
		}

		if !opts.DryRun {
			newCard := &card.Card{
				UserID:   userID,
				Front:    src.Front,
				Back:     src.Back,
				Category: src.Category,
			}
			if err := imp.cards.Create(ctx, newCard); err != nil {
				return nil, fmt.Errorf("create card %q: %w", src.Front, err)
			}
		}
		known[key] = true
		_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %q\n", src.Front)
		result.CardsNew++
	}

	return result, nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func readYAML(path string, dst interface{}) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(contents, dst)
}
