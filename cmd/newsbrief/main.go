package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsbrief/pkg/briefing"
	"github.com/umputun/newsbrief/pkg/config"
	"github.com/umputun/newsbrief/pkg/content"
	"github.com/umputun/newsbrief/pkg/domain"
	"github.com/umputun/newsbrief/pkg/feed"
	"github.com/umputun/newsbrief/pkg/llm"
	"github.com/umputun/newsbrief/pkg/pipeline"
)

// Opts with all CLI options
type Opts struct {
	Config   string `short:"c" long:"config" env:"NEWSBRIEF_CONFIG" description:"configuration file, defaults only if empty"`
	Feeds    string `short:"f" long:"feeds" env:"NEWSBRIEF_FEEDS" description:"feeds CSV file, overrides feeds_file"`
	Out      string `short:"o" long:"out" env:"NEWSBRIEF_OUT" description:"briefings directory, overrides output.dir"`
	FetchAll bool   `short:"a" long:"fetch-all" description:"fetch all available articles and write one briefing per date"`
	APIKey   string `long:"api-key" env:"LLM_API_KEY" description:"llm api key, overrides llm.api_key"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug, opts.APIKey)

	log.Printf("[INFO] starting newsbrief version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run loads configuration and sources, then makes a single aggregation pass.
// A missing feeds file ends the run without error, like a run with no articles.
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)

	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	sources, err := loadSources(cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] could not find %s, make sure the feeds file exists or sources are set in config", cfg.FeedsFile)
			return nil
		}
		return fmt.Errorf("failed to load sources: %w", err)
	}
	log.Printf("[INFO] loaded %d feed sources", len(sources))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	since, until, err := cfg.History.Range()
	if err != nil {
		return err
	}

	completer, err := llm.NewCompleter(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	log.Printf("[DEBUG] summarizing with %s model %s", cfg.LLM.Provider, cfg.LLM.Model)

	adapter := feed.NewAdapter(feed.AdapterParams{
		Parser: feed.NewParser(feed.ParserParams{
			Timeout:             cfg.Fetch.Timeout,
			UserAgent:           cfg.Fetch.UserAgent,
			InsecureTLSFallback: cfg.Fetch.InsecureTLSFallback,
		}),
		Extractor: content.NewHTTPExtractor(content.Params{
			Timeout:       cfg.Extraction.Timeout,
			UserAgent:     cfg.Extraction.UserAgent,
			MinTextLength: cfg.Extraction.MinTextLength,
		}),
		MaxItems: cfg.Fetch.MaxItems,
	})

	runner := pipeline.NewRunner(pipeline.Params{
		Fetcher:     adapter,
		Summarizer:  llm.NewSummarizer(completer, cfg.LLM.BatchSize),
		Writer:      &briefing.Writer{Dir: cfg.Output.Dir, Renderer: briefing.NewRenderer(loc)},
		FetchAll:    opts.FetchAll,
		Concurrency: cfg.Fetch.Concurrency,
		Since:       since,
		Until:       until,
	})

	report, err := runner.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	log.Printf("[INFO] done, %d of %d sources fetched, %d articles, %d briefings",
		report.Sources-report.Failed, report.Sources, report.Items, len(report.Files))
	return nil
}

// applyOverrides sets config values given on the command line
func applyOverrides(cfg *config.Config, opts Opts) {
	if opts.Feeds != "" {
		cfg.FeedsFile = opts.Feeds
	}
	if opts.Out != "" {
		cfg.Output.Dir = opts.Out
	}
	if opts.APIKey != "" {
		cfg.LLM.APIKey = opts.APIKey
	}
}

// loadSources reads the feeds file and appends inline sources from config.
// A missing feeds file is not an error if config has inline sources.
func loadSources(cfg *config.Config) ([]domain.Source, error) {
	var res []domain.Source
	if cfg.FeedsFile != "" {
		fromFile, err := config.LoadSources(cfg.FeedsFile)
		switch {
		case err == nil:
			res = append(res, fromFile...)
		case errors.Is(err, os.ErrNotExist) && len(cfg.Sources) > 0:
			log.Printf("[WARN] feeds file %s not found, using sources from config", cfg.FeedsFile)
		default:
			return nil, err
		}
	}
	res = append(res, cfg.Sources...)
	return res, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
