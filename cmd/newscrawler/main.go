package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"newscrawler/internal/config"
	"newscrawler/internal/crawl"
	"newscrawler/internal/feed"
	"newscrawler/internal/fetch"
	"newscrawler/internal/logging"
	"newscrawler/internal/sites"
	"newscrawler/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	siteKey := flag.String("site", "", "specific site key to crawl (default: all sites)")
	limit := flag.Int("limit", cfg.Crawl.ItemLimit, "max items per site")
	flag.Parse()

	registry := buildRegistry(cfg)
	if *siteKey != "" {
		if _, ok := registry[*siteKey]; !ok {
			fmt.Fprintf(os.Stderr, "unknown site %q (known: %s)\n",
				*siteKey, strings.Join(registry.Keys(), ", "))
			os.Exit(2)
		}
	}

	store, err := storage.Open(cfg.Database.URL, logger.With("component", "storage"))
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	reader := feed.NewReader(feed.ReaderOptions{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout(),
		Delay:     cfg.Crawl.RequestDelay(),
		Jitter:    cfg.Crawl.RequestJitter(),
	}, logger.With("component", "feed"))

	fetcher := fetch.New(fetch.Options{
		UserAgent:  cfg.HTTP.UserAgent,
		Timeout:    cfg.HTTP.Timeout(),
		Retries:    cfg.HTTP.Retries,
		RetryDelay: cfg.HTTP.RetryDelay(),
		Growth:     cfg.HTTP.RetryGrowth,
	}, logger.With("component", "fetch"))

	runner := crawl.NewRunner(crawl.Options{
		Registry: registry,
		Feeds:    reader,
		Pages:    fetcher,
		Store:    store,
		Delay:    cfg.Crawl.RequestDelay(),
		Jitter:   cfg.Crawl.RequestJitter(),
		Logger:   logger.With("component", "crawl"),
	})

	total := 0
	if *siteKey != "" {
		saved, err := runner.RunSite(ctx, *siteKey, *limit)
		if err != nil {
			logger.Error("crawl failed", "site", *siteKey, "error", err)
			os.Exit(1)
		}
		total = saved
	} else {
		total = runner.RunAll(ctx, *limit)
	}

	// Site-level failures are recorded in crawl_logs, not the exit code.
	fmt.Printf("Saved %d articles\n", total)
}

func buildRegistry(cfg config.Config) sites.Registry {
	if len(cfg.Sites) == 0 {
		return sites.Default()
	}
	registry := sites.Registry{}
	for _, sc := range cfg.Sites {
		registry[sc.Key] = sites.Site{
			Key:      sc.Key,
			Name:     sc.Name,
			Homepage: sc.Homepage,
			RSS:      sc.RSS,
		}
	}
	return registry
}
