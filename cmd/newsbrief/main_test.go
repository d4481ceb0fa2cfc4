package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbrief/pkg/config"
	"github.com/umputun/newsbrief/pkg/domain"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title><link>https://example.com</link>
%s
</channel></rss>`

func rssItem(title, link, desc string, published time.Time) string {
	return fmt.Sprintf("<item><title>%s</title><link>%s</link><description>%s</description><pubDate>%s</pubDate></item>",
		title, link, desc, published.Format(time.RFC1123Z))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_MissingConfig(t *testing.T) {
	err := run(context.Background(), Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.yml", "invalid: yaml: content: [")
	err := run(context.Background(), Opts{Config: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_MissingAPIKey(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), Opts{Feeds: filepath.Join(dir, "feeds.csv"), Out: filepath.Join(dir, "out")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRun_MissingFeedsFile(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), Opts{APIKey: "key", Feeds: filepath.Join(dir, "feeds.csv"), Out: filepath.Join(dir, "out")})
	require.NoError(t, err, "missing feeds file is a clean stop")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRun_FetchAllOpenAI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = fmt.Fprintf(w, rssTemplate,
				rssItem("New Year", "https://example.com/ny", "&lt;b&gt;fireworks&lt;/b&gt;", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))+
					rssItem("Eve", "https://example.com/eve", "countdown", time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC)))
		case "/v1/chat/completions":
			var req openai.ChatCompletionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if assert.NotEmpty(t, req.Messages) {
				assert.Contains(t, req.Messages[len(req.Messages)-1].Content, "ARTICLE 2:\nTitle: Eve\n")
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "1. Fireworks over the city.\n2. Countdown begins."}},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	feedsFile := writeFile(t, dir, "feeds.csv", "Source Name,Category,URL,Type\nTest Feed,World,"+ts.URL+"/feed.xml,rss\n")
	cfgFile := writeFile(t, dir, "config.yml", fmt.Sprintf("llm:\n  provider: openai\n  endpoint: %s/v1\nfetch:\n  timeout: 5s\n", ts.URL))
	out := filepath.Join(dir, "briefings")

	err := run(context.Background(), Opts{Config: cfgFile, Feeds: feedsFile, Out: out, APIKey: "test-key", FetchAll: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "2024-01-01.md")) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), "# 🗞️ Daily Briefing: 2024-01-01")
	assert.Contains(t, string(data), "**Total Articles:** 1")
	assert.Contains(t, string(data),
		"| 01-01-2024 / 10:00 UTC | World | Test Feed | New Year | Fireworks over the city. | [Link](https://example.com/ny) |")

	data, err = os.ReadFile(filepath.Join(out, "2023-12-31.md")) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), "| Eve | Countdown begins. |")
}

func TestRun_TodayAnthropic(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = fmt.Fprintf(w, rssTemplate,
				rssItem("Fresh", "https://example.com/fresh", "just in", now)+
					rssItem("Stale", "https://example.com/stale", "last week", now.AddDate(0, 0, -7)))
		case "/v1/messages":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"msg_01","type":"message","role":"assistant","model":"claude-3-haiku-20240307",
				"content":[{"type":"text","text":"1. Breaking update."}],
				"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":5}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", fmt.Sprintf(`
sources:
  - name: Inline
    category: Tech
    url: %s/feed.xml
  - name: Missing
    category: Tech
    url: %s/nope.xml
llm:
  endpoint: %s/
output:
  dir: %s
`, ts.URL, ts.URL, ts.URL, filepath.Join(dir, "out")))

	err := run(context.Background(), Opts{Config: cfgFile, APIKey: "test-key"})
	require.NoError(t, err)

	path := filepath.Join(dir, "out", now.Format("2006-01-02")+".md")
	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Total Articles:** 1")
	assert.Contains(t, string(data), "| Inline | Fresh | Breaking update. |")
	assert.NotContains(t, string(data), "Stale")
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{FeedsFile: "a.csv", Output: config.OutputConfig{Dir: "out"}, LLM: config.LLMConfig{APIKey: "cfg-key"}}
	applyOverrides(cfg, Opts{})
	assert.Equal(t, "a.csv", cfg.FeedsFile)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "cfg-key", cfg.LLM.APIKey)

	applyOverrides(cfg, Opts{Feeds: "b.csv", Out: "other", APIKey: "cli-key"})
	assert.Equal(t, "b.csv", cfg.FeedsFile)
	assert.Equal(t, "other", cfg.Output.Dir)
	assert.Equal(t, "cli-key", cfg.LLM.APIKey)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	feedsFile := writeFile(t, dir, "feeds.csv", "Source Name,Category,URL\nFromFile,A,https://a.example.com/rss\n")
	inline := []domain.Source{{Name: "Inline", URL: "https://b.example.com/rss", Kind: domain.KindAtom}}

	sources, err := loadSources(&config.Config{FeedsFile: feedsFile, Sources: inline})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "FromFile", sources[0].Name)
	assert.Equal(t, "Inline", sources[1].Name)

	sources, err = loadSources(&config.Config{FeedsFile: filepath.Join(dir, "missing.csv"), Sources: inline})
	require.NoError(t, err, "inline sources make the feeds file optional")
	assert.Equal(t, inline, sources)

	_, err = loadSources(&config.Config{FeedsFile: filepath.Join(dir, "missing.csv")})
	require.ErrorIs(t, err, os.ErrNotExist)

	broken := writeFile(t, dir, "broken.csv", "Name,Link\nx,y\n")
	_, err = loadSources(&config.Config{FeedsFile: broken})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))
}

func TestSetupLog(t *testing.T) {
	setupLog(true, "secret", "")
	setupLog(false)
}
