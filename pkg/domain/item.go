package domain

import "time"

// summary placeholders used when the model gives nothing usable for an item
const (
	SummaryUnavailable = "Summary unavailable"
	SummaryError       = "Error generating summary"
)

// Item represents a single article, episode or scraped page snapshot
type Item struct {
	Category  string
	Source    string
	Title     string
	Link      string
	Content   string     // markup-free text, capped by the adapter
	Published *time.Time // always UTC, nil when the source has no usable timestamp
	Summary   string
}

// FetchResult is the outcome of fetching a single source.
// Err is set when the source could not be retrieved or parsed, Items is empty in this case.
type FetchResult struct {
	Source Source
	Items  []Item
	Err    error
}

// OK returns true if the source was fetched successfully
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// BatchResult describes one summarization request covering items[Start:End]
type BatchResult struct {
	Start   int
	End     int
	Missing int   // items without a parsed summary line
	Err     error // request failure, all items in the batch got SummaryError
}
