// Package pipeline runs a single aggregation pass: fetch sources, select items,
// summarize them and write briefings.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsbrief/pkg/briefing"
	"github.com/umputun/newsbrief/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/writer.go -pkg mocks -skip-ensure -fmt goimports . Writer

// Fetcher retrieves items of a single source
type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source, fetchAll bool) domain.FetchResult
}

// Summarizer sets Summary of every item in place
type Summarizer interface {
	Summarize(ctx context.Context, items []domain.Item) []domain.BatchResult
}

// Writer stores a briefing for the given label and returns its location
type Writer interface {
	Write(items []domain.Item, label string) (string, error)
}

// Runner drives one run of the aggregator
type Runner struct {
	fetcher     Fetcher
	summarizer  Summarizer
	writer      Writer
	fetchAll    bool
	concurrency int
	since       time.Time
	until       time.Time
	now         func() time.Time
}

// Params defines runner dependencies and mode
type Params struct {
	Fetcher     Fetcher
	Summarizer  Summarizer
	Writer      Writer
	FetchAll    bool      // keep all history and write one briefing per publication date
	Concurrency int       // sources fetched at the same time, 1 if 0
	Since       time.Time // first date written in fetch-all mode, no limit if zero
	Until       time.Time // last date written in fetch-all mode, no limit if zero
}

// Report summarizes a finished run
type Report struct {
	Sources int      // sources attempted
	Failed  int      // sources failed to fetch
	Items   int      // items summarized
	Files   []string // written briefings
}

// NewRunner makes a pipeline runner
func NewRunner(params Params) *Runner {
	res := &Runner{
		fetcher:     params.Fetcher,
		summarizer:  params.Summarizer,
		writer:      params.Writer,
		fetchAll:    params.FetchAll,
		concurrency: params.Concurrency,
		since:       params.Since,
		until:       params.Until,
		now:         time.Now,
	}
	if res.concurrency <= 0 {
		res.concurrency = 1
	}
	return res
}

// Run fetches all sources, summarizes collected items and writes briefings.
// Source and summarization failures are logged and never stop the run,
// only context cancellation and briefing write errors are returned.
func (r *Runner) Run(ctx context.Context, sources []domain.Source) (Report, error) {
	now := r.now().UTC()
	report := Report{Sources: len(sources)}
	if r.fetchAll {
		lgr.Printf("[INFO] mode: fetch all history")
	}
	lgr.Printf("[INFO] date: %s UTC, %d sources", now.Format("2006-01-02 15:04"), len(sources))

	var items []domain.Item
	for _, res := range r.fetch(ctx, sources) {
		if !res.OK() {
			report.Failed++
			lgr.Printf("[WARN] failed to fetch %s (%s): %v", res.Source.Name, res.Source.URL, res.Err)
			continue
		}
		found := res.Items
		if !r.fetchAll {
			found = briefing.Filter(found, now)
		}
		lgr.Printf("[INFO] %s (%s): found %d items", res.Source.Name, res.Source.Kind, len(found))
		items = append(items, found...)
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("fetch canceled: %w", err)
	}

	lgr.Printf("[INFO] total articles fetched: %d", len(items))
	if len(items) == 0 {
		lgr.Printf("[INFO] no articles found, check feed urls")
		return report, nil
	}

	lgr.Printf("[INFO] generating summaries for %d articles", len(items))
	for _, br := range r.summarizer.Summarize(ctx, items) {
		switch {
		case br.Err != nil:
			lgr.Printf("[WARN] summaries for articles %d-%d failed: %v", br.Start+1, br.End, br.Err)
		case br.Missing > 0:
			lgr.Printf("[WARN] %d summaries missing for articles %d-%d", br.Missing, br.Start+1, br.End)
		}
	}
	report.Items = len(items)

	if !r.fetchAll {
		// today-only mode writes a single briefing labeled with the run date
		path, err := r.writer.Write(items, briefing.DateKey(&now))
		if err != nil {
			return report, fmt.Errorf("write briefing: %w", err)
		}
		report.Files = append(report.Files, path)
		lgr.Printf("[INFO] created %s with %d articles", path, len(items))
		return report, nil
	}

	buckets := briefing.Bucket(items)
	dates := briefing.SortedDates(buckets)
	lgr.Printf("[INFO] found articles across %d dates", len(dates))
	for _, date := range dates {
		bucket := buckets[date]
		if date == briefing.UnknownDate {
			lgr.Printf("[INFO] skipping %d articles with unknown dates", len(bucket))
			continue
		}
		if !r.inRange(date) {
			lgr.Printf("[DEBUG] skipping %s, outside of history range", date)
			continue
		}
		path, err := r.writer.Write(bucket, date)
		if err != nil {
			return report, fmt.Errorf("write briefing for %s: %w", date, err)
		}
		report.Files = append(report.Files, path)
		lgr.Printf("[INFO] %s: %d articles -> %s", date, len(bucket), path)
	}
	lgr.Printf("[INFO] created %d briefings, %d articles summarized", len(report.Files), len(items))
	return report, nil
}

// fetch retrieves sources with up to r.concurrency workers, results are in sources order
func (r *Runner) fetch(ctx context.Context, sources []domain.Source) []domain.FetchResult {
	results := make([]domain.FetchResult, len(sources))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = domain.FetchResult{Source: src, Err: err}
				return nil
			}
			lgr.Printf("[DEBUG] fetching %s (%s)", src.Name, src.Kind)
			results[i] = r.fetcher.Fetch(ctx, src, r.fetchAll)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are kept in results
	return results
}

// inRange checks a YYYY-MM-DD bucket key against configured history bounds
func (r *Runner) inRange(date string) bool {
	d, err := time.Parse(briefing.DateLayout, date)
	if err != nil {
		return false
	}
	if !r.since.IsZero() && d.Before(r.since) {
		return false
	}
	if !r.until.IsZero() && d.After(r.until) {
		return false
	}
	return true
}
