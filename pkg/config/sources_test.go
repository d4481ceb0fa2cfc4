package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbrief/pkg/domain"
)

func TestReadSources(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		data := "Source Name,Category,URL,Type\n" +
			"Go Blog,Programming,https://go.dev/blog/feed.atom,atom\n" +
			"Changelog,Podcasts,https://changelog.com/podcast/feed,PODCAST\n" +
			"Hacker News,Tech,https://news.ycombinator.com/rss,\n" +
			"Example,Misc,https://example.com/news,scrape\n"

		sources, err := ReadSources(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []domain.Source{
			{Name: "Go Blog", Category: "Programming", URL: "https://go.dev/blog/feed.atom", Kind: domain.KindAtom},
			{Name: "Changelog", Category: "Podcasts", URL: "https://changelog.com/podcast/feed", Kind: domain.KindPodcast},
			{Name: "Hacker News", Category: "Tech", URL: "https://news.ycombinator.com/rss", Kind: domain.KindRSS},
			{Name: "Example", Category: "Misc", URL: "https://example.com/news", Kind: domain.KindScrape},
		}, sources)
	})

	t.Run("no type column", func(t *testing.T) {
		data := "\ufeffsource name,category,url\nLobsters,Tech,https://lobste.rs/rss\n"
		sources, err := ReadSources(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "Lobsters", sources[0].Name)
		assert.Equal(t, domain.KindRSS, sources[0].Kind)
	})

	t.Run("rows without url skipped, missing name uses url", func(t *testing.T) {
		data := "Source Name,Category,URL\nEmpty,Tech,\n,Tech,https://example.com/rss\nShort,Tech\n"
		sources, err := ReadSources(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "https://example.com/rss", sources[0].Name)
	})

	t.Run("quoted fields", func(t *testing.T) {
		data := "Source Name,Category,URL\n\"News, Daily\",\"World\",https://example.com/rss\n"
		sources, err := ReadSources(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "News, Daily", sources[0].Name)
	})

	t.Run("missing url column", func(t *testing.T) {
		_, err := ReadSources(strings.NewReader("Source Name,Category\nA,B\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing "url" column`)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadSources(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty file")
	})
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.csv")
	require.NoError(t, os.WriteFile(path, []byte("Source Name,Category,URL\nA,B,https://example.com/rss\n"), 0o600))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "A", sources[0].Name)

	_, err = LoadSources(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
