package briefing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/umputun/newsbrief/pkg/domain"
)

// Writer stores rendered briefings as <label>.md files in Dir
type Writer struct {
	Dir      string
	Renderer *Renderer
}

// Write renders items and writes the document, creating Dir if needed. Returns the file path.
// An existing file for the same label is overwritten.
func (w *Writer) Write(items []domain.Item, label string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create briefings dir %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, label+".md")
	if err := os.WriteFile(path, []byte(w.Renderer.Render(items, label)), 0o644); err != nil { //nolint:gosec // briefings are meant to be read
		return "", fmt.Errorf("write briefing %s: %w", path, err)
	}
	return path, nil
}
