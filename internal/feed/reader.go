// Package feed reads syndication endpoints and normalizes RSS and Atom
// items into a single entry shape.
package feed

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one feed item. PublishedAt is nil when the feed carried no
// parseable timestamp; the caller decides how undated entries sort.
type Entry struct {
	Link        string
	Title       string
	Summary     string
	PublishedAt *time.Time
	ImageURL    string
}

// ReaderOptions configure outbound feed requests.
type ReaderOptions struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Jitter    time.Duration
}

// Reader fetches one or more feed endpoints for a site. A failing
// endpoint contributes zero entries instead of aborting the call.
type Reader struct {
	parser *gofeed.Parser
	delay  time.Duration
	jitter time.Duration
	logger *slog.Logger
}

// NewReader builds a reader backed by gofeed with a bounded request
// timeout and a custom user-agent.
func NewReader(opts ReaderOptions, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	parser := gofeed.NewParser()
	if opts.UserAgent != "" {
		parser.UserAgent = opts.UserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	parser.Client = &http.Client{Timeout: timeout}

	return &Reader{
		parser: parser,
		delay:  opts.Delay,
		jitter: opts.Jitter,
		logger: logger,
	}
}

// Fetch pulls every endpoint in order, pausing for the courtesy delay
// plus jitter between successive fetches. Output ordering is not
// guaranteed; the caller re-sorts.
func (r *Reader) Fetch(ctx context.Context, urls []string) []Entry {
	var out []Entry
	for i, endpoint := range urls {
		if i > 0 {
			pause(r.delay, r.jitter)
		}
		parsed, err := r.parser.ParseURLWithContext(endpoint, ctx)
		if err != nil {
			r.logger.Warn("feed fetch failed", "url", endpoint, "error", err)
			continue
		}
		for _, item := range parsed.Items {
			out = append(out, fromItem(item))
		}
	}
	return out
}

func fromItem(item *gofeed.Item) Entry {
	entry := Entry{
		Link:    item.Link,
		Title:   item.Title,
		Summary: item.Description,
	}
	if entry.Link == "" {
		entry.Link = item.GUID
	}
	if entry.Summary == "" {
		entry.Summary = item.Content
	}
	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.PublishedAt = item.UpdatedParsed
	}
	entry.ImageURL = guessImage(item)
	return entry
}

// guessImage tries the common feed media fields in order: Media RSS
// content and thumbnail, the feed-level image, image enclosures, and
// finally the first <img> inside the summary markup.
func guessImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if url := strings.TrimSpace(ext.Attrs["url"]); url != "" {
					return url
				}
			}
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	for _, raw := range []string{item.Description, item.Content} {
		if src := firstImageSrc(raw); src != "" {
			return src
		}
	}
	return ""
}

func pause(delay, jitter time.Duration) {
	if delay <= 0 && jitter <= 0 {
		return
	}
	sleep := delay
	if jitter > 0 {
		sleep += time.Duration(rand.Int63n(int64(jitter)))
	}
	time.Sleep(sleep)
}
