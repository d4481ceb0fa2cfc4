package briefing

import (
	"slices"
	"strings"
	"time"

	"github.com/umputun/newsbrief/pkg/domain"
)

// UnknownDate is the bucket key for items without publication time
const UnknownDate = "unknown"

// DateLayout formats bucket keys and briefing labels
const DateLayout = "2006-01-02"

// DateKey returns UTC calendar date of t as YYYY-MM-DD, or UnknownDate for nil
func DateKey(t *time.Time) string {
	if t == nil {
		return UnknownDate
	}
	return t.UTC().Format(DateLayout)
}

// Bucket groups items by publication date. Items keep their relative order inside a bucket.
func Bucket(items []domain.Item) map[string][]domain.Item {
	res := make(map[string][]domain.Item)
	for _, item := range items {
		key := DateKey(item.Published)
		res[key] = append(res[key], item)
	}
	return res
}

// SortedDates returns bucket keys newest first, UnknownDate goes last
func SortedDates(buckets map[string][]domain.Item) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == UnknownDate:
			return 1
		case b == UnknownDate:
			return -1
		}
		return strings.Compare(b, a)
	})
	return keys
}
