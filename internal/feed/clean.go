package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips HTML markup from a feed field down to plain text
// with normalized whitespace.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// firstImageSrc returns the src of the first <img> in an HTML snippet,
// or "" when there is none.
func firstImageSrc(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
