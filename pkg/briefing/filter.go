// Package briefing selects, groups and renders items into daily markdown briefings.
package briefing

import (
	"time"

	"github.com/umputun/newsbrief/pkg/domain"
)

// IsCurrent returns true if t is set and falls on the same UTC calendar day as now
func IsCurrent(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	ty, tm, td := t.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return ty == ny && tm == nm && td == nd
}

// Filter returns items published on the UTC day of now, preserving order
func Filter(items []domain.Item, now time.Time) []domain.Item {
	res := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if IsCurrent(item.Published, now) {
			res = append(res, item)
		}
	}
	return res
}
