package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; Newsbrief/1.0)"

// HTTPExtractor extracts the main text of a web page using trafilatura
type HTTPExtractor struct {
	client        *http.Client
	userAgent     string
	minTextLength int
}

// Params defines extractor settings
type Params struct {
	Timeout       time.Duration
	UserAgent     string
	MinTextLength int // pages with less extracted text are treated as failures
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(params Params) *HTTPExtractor {
	res := &HTTPExtractor{
		client:        &http.Client{Timeout: params.Timeout},
		userAgent:     params.UserAgent,
		minTextLength: params.MinTextLength,
	}
	if res.userAgent == "" {
		res.userAgent = defaultUserAgent
	}
	return res
}

// Extract retrieves the page and returns its primary readable text with boilerplate removed
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req)
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	// convert legacy encodings to utf-8 before extraction
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", urlStr, err)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	result, err := trafilatura.Extract(body, opts)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", urlStr)
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}
	if len([]rune(text)) < e.minTextLength {
		return "", fmt.Errorf("extracted text too short (%d chars) from %s", len([]rune(text)), urlStr)
	}

	return text, nil
}
