package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/newsbrief/pkg/domain"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// DefaultMaxItems is the number of feed entries considered per source unless full history is requested
const DefaultMaxItems = 50

// content limits, in characters
const (
	FeedContentLimit   = 500
	ScrapeContentLimit = 800
)

const defaultTitle = "No Title"

// FeedParser retrieves and parses a feed
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// Extractor extracts the main readable text of a web page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Adapter turns a configured source into a list of items.
// Feed kinds share the same entry loop and differ only in how the content field is built,
// scrape sources go through the page extractor and always produce a single item.
type Adapter struct {
	parser    FeedParser
	extractor Extractor
	maxItems  int
	now       func() time.Time
}

// AdapterParams defines adapter dependencies and limits
type AdapterParams struct {
	Parser    FeedParser
	Extractor Extractor
	MaxItems  int // entries considered per feed, DefaultMaxItems if 0
}

// NewAdapter makes a new source adapter
func NewAdapter(params AdapterParams) *Adapter {
	res := &Adapter{
		parser:    params.Parser,
		extractor: params.Extractor,
		maxItems:  params.MaxItems,
		now:       time.Now,
	}
	if res.maxItems <= 0 {
		res.maxItems = DefaultMaxItems
	}
	return res
}

// Fetch retrieves a single source. Any failure is reported in the result and never affects other sources.
// With fetchAll set the per-feed entry cap is lifted.
func (a *Adapter) Fetch(ctx context.Context, src domain.Source, fetchAll bool) domain.FetchResult {
	if src.Kind == domain.KindScrape {
		return a.scrape(ctx, src)
	}

	if a.parser == nil {
		return domain.FetchResult{Source: src, Err: errors.New("no feed parser")}
	}

	feed, err := a.parser.Parse(ctx, src.URL)
	if err != nil {
		return domain.FetchResult{Source: src, Err: err}
	}

	entries := feed.Items
	if !fetchAll && len(entries) > a.maxItems {
		entries = entries[:a.maxItems]
	}

	items := make([]domain.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, a.convert(src, entry))
	}
	return domain.FetchResult{Source: src, Items: items}
}

// convert makes an item from a feed entry according to the source kind
func (a *Adapter) convert(src domain.Source, entry domain.ParsedItem) domain.Item {
	item := domain.Item{
		Category:  src.Category,
		Source:    src.Name,
		Title:     CleanText(entry.Title),
		Link:      strings.TrimSpace(entry.Link),
		Published: entry.Published,
	}
	if item.Title == "" {
		item.Title = defaultTitle
	}
	if item.Link == "" {
		item.Link = src.URL
	}
	if item.Published == nil {
		item.Published = entry.Updated
	}

	// body falls back to full entry content when the feed has no summary element
	content := CleanText(entry.Description)
	if content == "" && src.Kind == domain.KindPodcast {
		content = CleanText(entry.ITunesSummary)
	}
	if content == "" {
		content = CleanText(entry.Content)
	}
	if src.Kind == domain.KindAtom && len(entry.Authors) > 0 {
		content = strings.TrimSpace(fmt.Sprintf("Authors: %s. %s", strings.Join(entry.Authors, ", "), content))
	}
	item.Content = Truncate(content, FeedContentLimit)

	return item
}

// scrape extracts a page and returns it as a single item stamped with the fetch time
func (a *Adapter) scrape(ctx context.Context, src domain.Source) domain.FetchResult {
	if a.extractor == nil {
		return domain.FetchResult{Source: src, Err: errors.New("no page extractor")}
	}

	text, err := a.extractor.Extract(ctx, src.URL)
	if err != nil {
		return domain.FetchResult{Source: src, Err: err}
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return domain.FetchResult{Source: src, Err: fmt.Errorf("no text extracted from %s", src.URL)}
	}

	// scraped pages have no publication date, fetch time is the best we have
	fetchedAt := a.now().UTC()
	item := domain.Item{
		Category:  src.Category,
		Source:    src.Name,
		Title:     src.Name + " - Latest",
		Link:      src.URL,
		Content:   Truncate(text, ScrapeContentLimit),
		Published: &fetchedAt,
	}
	return domain.FetchResult{Source: src, Items: []domain.Item{item}}
}
