package briefing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/newsbrief/pkg/domain"
)

func TestBucket(t *testing.T) {
	item1 := domain.Item{Title: "1", Published: tp(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))}
	item2 := domain.Item{Title: "2", Published: tp(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))}
	item3 := domain.Item{Title: "3"}

	res := Bucket([]domain.Item{item1, item2, item3})
	assert.Equal(t, map[string][]domain.Item{
		"2024-01-01": {item1, item2},
		"unknown":    {item3},
	}, res)
}

func TestBucket_UsesUTCDate(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)
	item := domain.Item{Published: tp(time.Date(2024, 1, 1, 20, 0, 0, 0, pst))}
	res := Bucket([]domain.Item{item})
	assert.Contains(t, res, "2024-01-02")
	assert.Empty(t, Bucket(nil))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, UnknownDate, DateKey(nil))
	assert.Equal(t, "2024-02-29", DateKey(tp(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))))
}

func TestSortedDates(t *testing.T) {
	buckets := map[string][]domain.Item{
		"2024-01-01": nil,
		UnknownDate:  nil,
		"2024-01-03": nil,
		"2023-12-31": nil,
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-01", "2023-12-31", UnknownDate}, SortedDates(buckets))
	assert.Empty(t, SortedDates(nil))
}
