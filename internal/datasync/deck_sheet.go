package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/mnemo-app/mnemo/internal/card"
)

// boldPattern matches **bold** text in markdown
var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// WriteDeckSheet renders cards as a printable markdown sheet grouped by
// category and converts it to PDF. It returns the PDF path.
func WriteDeckSheet(cards []card.Card, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	markdownPath := filepath.Join(outputDir, "deck.md")
	if err := os.WriteFile(markdownPath, []byte(renderDeckMarkdown(cards)), 0o644); err != nil {
		return "", fmt.Errorf("write deck.md: %w", err)
	}

	return convertMarkdownToPDF(markdownPath)
}

func renderDeckMarkdown(cards []card.Card) string {
	byCategory := make(map[string][]card.Card)
	for _, c := range cards {
		category := c.Category
		if category == "" {
			category = "uncategorized"
		}
		byCategory[category] = append(byCategory[category], c)
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("# Flashcards\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "\n## %s\n\n", category)
		for _, c := range byCategory[category] {
			fmt.Fprintf(&b, "**%s**\n\n", c.Front)
			fmt.Fprintf(&b, "> %s\n\n", c.Back)
		}
	}
	return b.String()
}

// convertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func convertMarkdownToPDF(markdownPath string) (string, error) {
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	// Preprocess: remove bold markers in blockquotes (mdtopdf doesn't handle them well)
	content = stripBoldInBlockquotes(content)

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	renderer.UpdateBlockquoteStyler()
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}

// stripBoldInBlockquotes removes **bold** markers in blockquote lines
// mdtopdf's blockquote multiCell doesn't handle inline bold properly
func stripBoldInBlockquotes(content []byte) []byte {
	lines := strings.Split(string(content), "\n")

	for i, line := range lines {
		if strings.HasPrefix(line, "> ") {
			lines[i] = boldPattern.ReplaceAllString(line, "$1")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
