package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsbrief/pkg/domain"
)

//go:generate moq -out mocks/completer.go -pkg mocks -skip-ensure -fmt goimports . Completer

// DefaultBatchSize is the number of items sent in a single summarization request
const DefaultBatchSize = 20

// Completer sends a prompt to a language model and returns the generated text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Summarizer attaches short model-written summaries to items, one request per batch
type Summarizer struct {
	completer Completer
	batchSize int
}

// NewSummarizer makes a summarizer, batchSize <= 0 means DefaultBatchSize
func NewSummarizer(completer Completer, batchSize int) *Summarizer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Summarizer{completer: completer, batchSize: batchSize}
}

// Summarize sets Summary for every item in place. Batches are sent sequentially in input order.
// A failed request marks its batch with domain.SummaryError, items the model skipped get
// domain.SummaryUnavailable. Errors are reported in the returned batch results only.
func (s *Summarizer) Summarize(ctx context.Context, items []domain.Item) []domain.BatchResult {
	results := make([]domain.BatchResult, 0, (len(items)+s.batchSize-1)/s.batchSize)
	for start := 0; start < len(items); start += s.batchSize {
		end := min(start+s.batchSize, len(items))
		lgr.Printf("[INFO] processing articles %d-%d of %d", start+1, end, len(items))
		results = append(results, s.summarizeBatch(ctx, items[start:end], start))
	}
	return results
}

func (s *Summarizer) summarizeBatch(ctx context.Context, batch []domain.Item, offset int) domain.BatchResult {
	res := domain.BatchResult{Start: offset, End: offset + len(batch)}

	resp, err := s.completer.Complete(ctx, BuildPrompt(batch))
	if err != nil {
		for i := range batch {
			batch[i].Summary = domain.SummaryError
		}
		res.Err = err
		return res
	}

	summaries := ParseSummaries(resp)
	for i := range batch {
		text, ok := summaries[i+1]
		if !ok {
			text = domain.SummaryUnavailable
			res.Missing++
		}
		batch[i].Summary = text
	}
	return res
}

// BuildPrompt makes a single prompt listing all items with 1-based numbers
func BuildPrompt(items []domain.Item) string {
	var sb strings.Builder
	sb.WriteString("You are a news analyst. For each article below, write a 1-2 sentence summary (max 30 words) capturing the key point.\n\n")
	sb.WriteString("Respond ONLY with a numbered list matching the article numbers. No other text.\n\n")
	sb.WriteString("Format:\n1. [summary for article 1]\n2. [summary for article 2]\n...\n\n")
	sb.WriteString("ARTICLES:\n")
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("\nARTICLE %d:\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", item.Title))
		sb.WriteString(fmt.Sprintf("Source: %s\n", item.Source))
		sb.WriteString(fmt.Sprintf("Content: %s\n", item.Content))
		sb.WriteString("---\n")
	}
	return sb.String()
}

// summaryLineRe accepts "1. text", "1) text" and "1 text"
var summaryLineRe = regexp.MustCompile(`^(\d+)[.)\s]+(.+)$`)

// ParseSummaries extracts numbered lines from the model response, keyed by the 1-based number.
// Lines without a leading number are ignored, a repeated number keeps the last line.
func ParseSummaries(resp string) map[int]string {
	res := make(map[int]string)
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := summaryLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(m[2]); text != "" {
			res[num] = text
		}
	}
	return res
}
