package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extraction carries page-derived fields. Any field may be unset; unset
// fields never override data the caller already has from the feed.
type Extraction struct {
	Title       string
	Content     string
	PublishedAt *time.Time
	ImageURL    string
}

// Accepted publish-timestamp layouts, tried in order. Malformed values
// are skipped, not fatal.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006.01.02 15:04",
	"2006-01-02T15:04:05",
}

// ParseDate parses a meta-tag timestamp against the accepted layouts.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Extract resolves title, content, publish date, and lead image from
// raw page HTML using the site's rule. Each field falls through its own
// priority list; the first non-empty result wins.
func Extract(html string, rule Rule) Extraction {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extraction{}
	}

	var out Extraction

	out.Title = firstText(doc, rule.TitleSelectors)
	if out.Title == "" {
		out.Title = metaContent(doc, "og:title")
	}

	out.Content = collectContent(doc, rule.ContentSelectors)

	for _, prop := range rule.DateMetaProps {
		value := metaContent(doc, prop)
		if value == "" {
			continue
		}
		if parsed, ok := ParseDate(value); ok {
			out.PublishedAt = &parsed
			break
		}
	}

	imageProps := rule.ImageMetaProps
	if len(imageProps) == 0 {
		imageProps = []string{"og:image"}
	}
	for _, prop := range imageProps {
		if value := metaContent(doc, prop); value != "" {
			out.ImageURL = value
			break
		}
	}

	return out
}

// firstText tries each selector in order and returns the text of the
// first one with a non-empty match.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := normalize(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// collectContent joins the text of all nodes matched by the first
// selector that yields anything. Later selectors are not merged in.
func collectContent(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		var parts []string
		doc.Find(selector).Each(func(_ int, node *goquery.Selection) {
			if text := normalize(node.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

// metaContent reads a meta tag's content by property, falling back to
// the name attribute, since publishers use both.
func metaContent(doc *goquery.Document, prop string) string {
	for _, selector := range []string{
		fmt.Sprintf("meta[property=%q]", prop),
		fmt.Sprintf("meta[name=%q]", prop),
	} {
		if value, ok := doc.Find(selector).First().Attr("content"); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
