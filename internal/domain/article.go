package domain

import "time"

// TitleMaxLen bounds stored titles. Titles are truncated to this length
// before any duplicate comparison or insert.
const TitleMaxLen = 512

// Article is a stored news item. URL is unique across all articles; a
// second candidate with the same URL is treated as already known.
type Article struct {
	ID          int64
	Site        string
	URL         string
	Title       string
	Summary     string
	Content     string
	Author      string
	Category    string
	ImageURL    string
	PublishedAt *time.Time
	FetchedAt   time.Time
}

// TruncateTitle cuts a title down to TitleMaxLen code points.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= TitleMaxLen {
		return title
	}
	return string(runes[:TitleMaxLen])
}

// Crawl run outcomes recorded in crawl_logs.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// CrawlLog is one audit record per crawl invocation for one site.
// Exactly one row is appended per site per run, whatever the outcome.
type CrawlLog struct {
	ID      int64
	Site    string
	RunAt   time.Time
	Status  string
	Saved   int
	Failed  int
	Message string
}
