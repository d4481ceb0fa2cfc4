package domain

import (
	"strings"
	"time"
)

// Kind defines how a source is retrieved and which fields carry the content
type Kind string

// enum of supported source kinds
const (
	KindRSS     Kind = "rss"
	KindAtom    Kind = "atom"
	KindPodcast Kind = "podcast"
	KindScrape  Kind = "scrape"
)

// ParseKind converts a raw type value to Kind. Blank and unknown values map to rss.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAtom, KindPodcast, KindScrape:
		return k
	default:
		return KindRSS
	}
}

// Source represents a configured feed or page
type Source struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	URL      string `yaml:"url" json:"url"`
	Kind     Kind   `yaml:"type" json:"type"`
}

// ParsedFeed represents a parsed RSS/Atom feed
type ParsedFeed struct {
	Title string
	Link  string
	Items []ParsedItem
}

// ParsedItem represents a single entry of a parsed feed, all fields are optional
type ParsedItem struct {
	Title         string
	Link          string
	Description   string
	Content       string
	ITunesSummary string
	Authors       []string
	Published     *time.Time
	Updated       *time.Time
}
