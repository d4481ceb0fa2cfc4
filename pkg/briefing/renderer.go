package briefing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/umputun/newsbrief/pkg/domain"
)

const (
	titleLimit     = 60
	rowTimeLayout  = "01-02-2006 / 15:04 MST"
	tableHeader    = "| Date/Time | Category | Source | Title | Summary | Link |"
	tableSeparator = "|-----------|----------|--------|-------|---------|------|"
)

// Renderer produces markdown briefing documents
type Renderer struct {
	loc *time.Location
	now func() time.Time
}

// NewRenderer makes a renderer showing row timestamps in loc, UTC if loc is nil
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc, now: time.Now}
}

// Render makes a briefing document for the items labeled with label, usually a YYYY-MM-DD date.
// Items are sorted newest first on a copy, items without publication time go last.
func (r *Renderer) Render(items []domain.Item, label string) string {
	sorted := SortByTime(items)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 🗞️ Daily Briefing: %s\n\n", label)
	fmt.Fprintf(&sb, "*Generated at %s UTC*\n\n", r.now().UTC().Format("15:04"))
	fmt.Fprintf(&sb, "**Total Articles:** %d\n\n", len(sorted))
	sb.WriteString("---\n\n")
	sb.WriteString(tableHeader + "\n")
	sb.WriteString(tableSeparator + "\n")
	for _, item := range sorted {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | [Link](%s) |\n",
			r.formatTime(item.Published),
			cell(item.Category),
			cell(item.Source),
			cell(TruncateTitle(item.Title)),
			cell(item.Summary),
			cell(item.Link),
		)
	}
	return sb.String()
}

func (r *Renderer) formatTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.In(r.loc).Format(rowTimeLayout)
}

// SortByTime returns a copy of items sorted by publication time descending, nil times last
func SortByTime(items []domain.Item) []domain.Item {
	res := slices.Clone(items)
	slices.SortStableFunc(res, func(a, b domain.Item) int {
		switch {
		case a.Published == nil && b.Published == nil:
			return 0
		case a.Published == nil:
			return 1
		case b.Published == nil:
			return -1
		}
		return b.Published.Compare(*a.Published)
	})
	return res
}

// TruncateTitle cuts title to 60 characters and adds "..." if it was longer
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleLimit {
		return title
	}
	return string(runes[:titleLimit]) + "..."
}

// EscapeMarkdown escapes pipe characters so the value can't break table columns
func EscapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// cell prepares a value for a table cell, line breaks would end the row
func cell(s string) string {
	return EscapeMarkdown(strings.Join(strings.Fields(s), " "))
}
