// Package rules maps site keys to the selector and meta-property lists
// used to pull article fields out of page HTML when feed data is not
// enough. The table is read-only after startup.
package rules

// Rule lists extraction attempts for one site, in priority order.
// Publishers change markup per-section, so each field falls through its
// own list independently instead of requiring a single rule to match
// the whole page.
type Rule struct {
	TitleSelectors   []string
	ContentSelectors []string
	DateMetaProps    []string
	ImageMetaProps   []string
}

// Lookup returns the extraction rule for a site key. Sites without a
// rule are crawled from feed data alone.
func Lookup(key string) (Rule, bool) {
	rule, ok := table[key]
	return rule, ok
}

var table = map[string]Rule{
	"khan": {
		TitleSelectors:   []string{"h1.tit-article", "h1#article_title", "h1"},
		ContentSelectors: []string{"#articleBody", ".art_body", ".article-txt", ".article_body"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time", "date"},
		ImageMetaProps:   []string{"og:image"},
	},
	"mk": {
		TitleSelectors:   []string{"h2#top_header", "h1.news_ttl", "h1"},
		ContentSelectors: []string{"#article_body", ".art_txt", ".art_txt p"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"donga": {
		TitleSelectors:   []string{"h1.tit", "h1#content_title", "h1"},
		ContentSelectors: []string{"#content", ".article_txt", ".article_view"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"hankook": {
		TitleSelectors:   []string{"h1.headline", "h1"},
		ContentSelectors: []string{"#article-view-content-div", ".article-body", ".story-news"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"asiatoday": {
		TitleSelectors:   []string{"h1#newsTitle", "h1.news_title", "h1"},
		ContentSelectors: []string{"#newsBody", ".article_view", ".article_text"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"jtbc": {
		TitleSelectors:   []string{"h1#article_title", "h1.title", "h1"},
		ContentSelectors: []string{"#article_body", ".article_content", ".article_content p"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"mbc": {
		TitleSelectors:   []string{"h2.news_title", "h1#news_title", "h1"},
		ContentSelectors: []string{"#news_body_area", ".news_txt", ".news_txt p"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"ytn": {
		TitleSelectors:   []string{"h1#cm-title", "h1.tit", "h1"},
		ContentSelectors: []string{"#CmAdContent", ".article_paragraph", "#artibody"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"koreatimes": {
		TitleSelectors:   []string{"h1.top-title", "h1#title", "h1"},
		ContentSelectors: []string{"#articleBody", ".artText", ".artText p"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
	"koreaherald": {
		TitleSelectors:   []string{"h1#articleTitle", "h1.view_title", "h1"},
		ContentSelectors: []string{"#articleText", ".view_con", ".article_view"},
		DateMetaProps:    []string{"article:published_time", "og:article:published_time"},
		ImageMetaProps:   []string{"og:image"},
	},
}
