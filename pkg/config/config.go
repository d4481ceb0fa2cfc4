package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/newsbrief/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// supported llm providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// DateLayout is the layout of history range bounds and briefing file names
const DateLayout = "2006-01-02"

// Config holds the application configuration
type Config struct {
	FeedsFile string          `yaml:"feeds_file" json:"feeds_file" jsonschema:"default=data/feeds.csv,description=CSV file with Source Name/Category/URL/Type columns"`
	Sources   []domain.Source `yaml:"sources" json:"sources" jsonschema:"description=Sources defined inline, added after the CSV ones"`

	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=Summarization model configuration"`
	Fetch      FetchConfig      `yaml:"fetch" json:"fetch" jsonschema:"description=Feed retrieval configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Page scraping configuration"`
	Output     OutputConfig     `yaml:"output" json:"output" jsonschema:"description=Briefing output configuration"`
	History    HistoryConfig    `yaml:"history" json:"history" jsonschema:"description=Date range for full history mode"`
}

// LLMConfig holds summarization model settings
type LLMConfig struct {
	Provider     string        `yaml:"provider" json:"provider" jsonschema:"default=anthropic,enum=anthropic,enum=openai,description=API flavour"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=API base URL, provider default if empty"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0,minimum=0,maximum=2,description=Sampling temperature"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4000,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=20,minimum=1,description=Number of items summarized in one request"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=Optional system prompt"`
}

// FetchConfig holds feed retrieval settings
type FetchConfig struct {
	Timeout             time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Feed request timeout"`
	MaxItems            int           `yaml:"max_items" json:"max_items" jsonschema:"default=50,minimum=1,description=Entries considered per feed, ignored in full history mode"`
	Concurrency         int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=1,minimum=1,description=Sources fetched at the same time"`
	UserAgent           string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newsbrief/1.0,description=User agent for feed requests"`
	InsecureTLSFallback bool          `yaml:"insecure_tls_fallback" json:"insecure_tls_fallback" jsonschema:"default=true,description=Retry once without certificate verification if a feed host has an invalid certificate"`
}

// ExtractionConfig holds page scraping settings
type ExtractionConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Page request timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for page requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=0,description=Minimum extracted text length to accept a page"`
}

// OutputConfig holds briefing output settings
type OutputConfig struct {
	Dir      string `yaml:"dir" json:"dir" jsonschema:"default=Daily Briefings,description=Directory for briefing files"`
	Timezone string `yaml:"timezone" json:"timezone" jsonschema:"default=UTC,description=IANA zone for the Date/Time column"`
}

// HistoryConfig limits which dates are written in full history mode, both bounds inclusive and optional
type HistoryConfig struct {
	Since string `yaml:"since" json:"since" jsonschema:"description=First date to write (YYYY-MM-DD)"`
	Until string `yaml:"until" json:"until" jsonschema:"description=Last date to write (YYYY-MM-DD)"`
}

// Load reads configuration from a YAML file. Empty path means defaults only.
// The result is not validated, call Validate after applying command line overrides.
func Load(path string) (*Config, error) {
	// bool defaults are set before parsing, yaml keeps them unless the key is present
	cfg := Config{Fetch: FetchConfig{InsecureTLSFallback: true}}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary, Validate is authoritative
		log.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.FeedsFile == "" && len(cfg.Sources) == 0 {
		cfg.FeedsFile = "data/feeds.csv"
	}
	for i := range cfg.Sources {
		cfg.Sources[i].Kind = domain.ParseKind(string(cfg.Sources[i].Kind))
	}

	// set defaults for llm
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderAnthropic
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case ProviderOpenAI:
			cfg.LLM.Model = "gpt-4o-mini"
		default:
			cfg.LLM.Model = "claude-3-haiku-20240307"
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.BatchSize == 0 {
		cfg.LLM.BatchSize = 20
	}

	// set defaults for fetch
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.MaxItems == 0 {
		cfg.Fetch.MaxItems = 50
	}
	if cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = 1
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "Newsbrief/1.0"
	}

	// set defaults for extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}

	// set defaults for output
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "Daily Briefings"
	}
	if cfg.Output.Timezone == "" {
		cfg.Output.Timezone = "UTC"
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	// validate llm config
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is required, set llm.api_key or LLM_API_KEY")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.BatchSize < 1 {
		return fmt.Errorf("llm.batch_size must be at least 1")
	}

	// validate fetch config
	if c.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch timeout must be at least 1 second")
	}
	if c.Fetch.MaxItems < 1 {
		return fmt.Errorf("fetch.max_items must be at least 1")
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be at least 1")
	}
	if c.Extraction.MinTextLength < 0 {
		return fmt.Errorf("extraction.min_text_length must be non-negative")
	}

	for i, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("sources[%d]: url is required", i)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := c.History.Range(); err != nil {
		return err
	}
	return nil
}

// Location returns the display time zone for briefings
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Output.Timezone)
	if err != nil {
		return nil, fmt.Errorf("output.timezone %q: %w", c.Output.Timezone, err)
	}
	return loc, nil
}

// Range returns parsed history bounds, zero time for a missing bound
func (h HistoryConfig) Range() (since, until time.Time, err error) {
	if h.Since != "" {
		if since, err = time.Parse(DateLayout, h.Since); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("history.since: %w", err)
		}
	}
	if h.Until != "" {
		if until, err = time.Parse(DateLayout, h.Until); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("history.until: %w", err)
		}
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return time.Time{}, time.Time{}, fmt.Errorf("history.until %s is before history.since %s", h.Until, h.Since)
	}
	return since, until, nil
}
