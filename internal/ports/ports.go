// Package ports defines the seams between the run driver and its
// adapters.
package ports

import (
	"context"

	"newscrawler/internal/domain"
	"newscrawler/internal/feed"
)

// FeedSource pulls normalized entries from a site's syndication
// endpoints. A failing endpoint contributes zero entries.
type FeedSource interface {
	Fetch(ctx context.Context, urls []string) []feed.Entry
}

// PageFetcher retrieves one article page. Failure is an empty body,
// never an error.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// ArticleStore persists candidates idempotently and records crawl runs.
type ArticleStore interface {
	SaveArticle(ctx context.Context, article domain.Article) (bool, error)
	LogRun(ctx context.Context, entry domain.CrawlLog) error
}
