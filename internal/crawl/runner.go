// Package crawl orchestrates one crawl pass per site: feed, enrich,
// dedup, persist, bookkeep.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"newscrawler/internal/domain"
	"newscrawler/internal/feed"
	"newscrawler/internal/ports"
	"newscrawler/internal/rules"
	"newscrawler/internal/sites"
)

// DefaultLimit caps candidate entries per site when the caller passes
// no limit.
const DefaultLimit = 100

// summaryMaxLen bounds summaries synthesized from page content.
const summaryMaxLen = 400

// Options wire the runner's collaborators and politeness settings.
type Options struct {
	Registry sites.Registry
	Feeds    ports.FeedSource
	Pages    ports.PageFetcher
	Store    ports.ArticleStore
	Delay    time.Duration
	Jitter   time.Duration
	Logger   *slog.Logger
}

// Runner drives crawls. A runner is safe to reuse across sites; it
// keeps no per-run state.
type Runner struct {
	registry sites.Registry
	feeds    ports.FeedSource
	pages    ports.PageFetcher
	store    ports.ArticleStore
	delay    time.Duration
	jitter   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner builds a runner from options.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: opts.Registry,
		feeds:    opts.Feeds,
		pages:    opts.Pages,
		store:    opts.Store,
		delay:    opts.Delay,
		jitter:   opts.Jitter,
		logger:   logger,
		now:      time.Now,
	}
}

// RunSite performs one crawl pass for a single site and returns the
// count of newly saved articles. Every outcome, including an empty
// feed, is recorded as exactly one crawl-log row; per-entry faults are
// counted, never raised.
func (r *Runner) RunSite(ctx context.Context, key string, limit int) (int, error) {
	site, ok := r.registry[key]
	if !ok {
		return 0, fmt.Errorf("unknown site %q", key)
	}
	logger := r.logger.With("site", key)

	entries := r.feeds.Fetch(ctx, site.RSS)
	if len(entries) == 0 {
		r.logRun(ctx, logger, domain.CrawlLog{
			Site:    site.Name,
			Status:  domain.StatusError,
			Message: "no entries",
		})
		logger.Warn("feed returned no entries")
		return 0, nil
	}

	// Undated entries sort as "now": they are not discarded, but they
	// also don't permanently occupy the front of the queue across runs.
	now := r.now()
	sort.SliceStable(entries, func(i, j int) bool {
		return entryTime(entries[i], now).After(entryTime(entries[j], now))
	})

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	rule, hasRule := rules.Lookup(key)

	var saved, failed int
	for i, entry := range entries {
		if i > 0 {
			r.pause()
		}

		candidate, ok := r.buildCandidate(ctx, site, entry, rule, hasRule)
		if !ok {
			failed++
			continue
		}

		stored, err := r.store.SaveArticle(ctx, candidate)
		if err != nil {
			failed++
			logger.Warn("save failed", "url", candidate.URL, "error", err)
			continue
		}
		if stored {
			saved++
		}
	}

	r.logRun(ctx, logger, domain.CrawlLog{
		Site:   site.Name,
		Status: domain.StatusOK,
		Saved:  saved,
		Failed: failed,
	})
	logger.Info("crawl finished", "saved", saved, "failed", failed)
	return saved, nil
}

// RunAll crawls every registered site in key order and returns the
// total saved count. Each site's pass is independent; a failure in one
// never affects another.
func (r *Runner) RunAll(ctx context.Context, limit int) int {
	total := 0
	for _, key := range r.registry.Keys() {
		saved, err := r.RunSite(ctx, key, limit)
		if err != nil {
			r.logger.Error("site crawl failed", "site", key, "error", err)
			continue
		}
		total += saved
	}
	return total
}

// buildCandidate assembles an article from feed fields and, when the
// site has an extraction rule, enriches it from the page. Page-derived
// fields override feed data only when non-empty.
func (r *Runner) buildCandidate(ctx context.Context, site sites.Site, entry feed.Entry, rule rules.Rule, hasRule bool) (domain.Article, bool) {
	url := strings.TrimSpace(entry.Link)
	title := feed.CleanText(entry.Title)
	if url == "" || title == "" {
		return domain.Article{}, false
	}

	summary := feed.CleanText(entry.Summary)
	published := entry.PublishedAt
	image := entry.ImageURL

	if hasRule {
		if html := r.pages.Fetch(ctx, url); html != "" {
			extracted := rules.Extract(html, rule)
			if extracted.Title != "" {
				title = extracted.Title
			}
			if extracted.Content != "" && summary == "" {
				summary = summarize(extracted.Content)
			}
			if extracted.ImageURL != "" {
				image = extracted.ImageURL
			}
			if extracted.PublishedAt != nil {
				published = extracted.PublishedAt
			}
		}
	}

	return domain.Article{
		Site:        site.Name,
		URL:         url,
		Title:       title,
		Summary:     summary,
		ImageURL:    image,
		PublishedAt: published,
	}, true
}

func (r *Runner) logRun(ctx context.Context, logger *slog.Logger, entry domain.CrawlLog) {
	entry.RunAt = r.now()
	if err := r.store.LogRun(ctx, entry); err != nil {
		logger.Error("write crawl log", "error", err)
	}
}

func (r *Runner) pause() {
	if r.delay <= 0 && r.jitter <= 0 {
		return
	}
	sleep := r.delay
	if r.jitter > 0 {
		sleep += time.Duration(rand.Int63n(int64(r.jitter)))
	}
	time.Sleep(sleep)
}

func entryTime(entry feed.Entry, now time.Time) time.Time {
	if entry.PublishedAt != nil {
		return *entry.PublishedAt
	}
	return now
}

// summarize derives a summary from page content when the feed had
// none.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryMaxLen {
		return content
	}
	return string(runes[:summaryMaxLen]) + "…"
}
