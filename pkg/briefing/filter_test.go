package briefing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/newsbrief/pkg/domain"
)

func tp(t time.Time) *time.Time { return &t }

func TestIsCurrent(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name string
		t    *time.Time
		want bool
	}{
		{name: "nil", t: nil, want: false},
		{name: "same moment", t: tp(now), want: true},
		{name: "utc midnight", t: tp(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)), want: true},
		{name: "last second of day", t: tp(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)), want: true},
		{name: "yesterday", t: tp(time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)), want: false},
		{name: "tomorrow", t: tp(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)), want: false},
		{name: "local evening is next utc day", t: tp(time.Date(2024, 3, 9, 20, 0, 0, 0, est)), want: true},
		{name: "local today is utc tomorrow", t: tp(time.Date(2024, 3, 10, 21, 0, 0, 0, est)), want: false},
		{name: "same day a year ago", t: tp(time.Date(2023, 3, 10, 12, 0, 0, 0, time.UTC)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCurrent(tt.t, now))
		})
	}

	// now in another zone is compared by its utc day
	assert.True(t, IsCurrent(tp(time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)), time.Date(2024, 3, 10, 22, 0, 0, 0, est)))
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []domain.Item{
		{Title: "a", Published: tp(now.Add(-time.Hour))},
		{Title: "b", Published: tp(now.Add(-24 * time.Hour))},
		{Title: "c"},
		{Title: "d", Published: tp(now.Add(time.Hour))},
	}

	res := Filter(items, now)
	assert.Equal(t, []domain.Item{items[0], items[3]}, res)
	assert.Empty(t, Filter(nil, now))
}
