// Package sites holds the static publisher registry. The registry is
// built once at startup and never mutated afterwards; adding a site
// means adding a map entry.
package sites

import "sort"

// Site describes one publisher: display name, homepage, and the feed
// endpoints crawled for it.
type Site struct {
	Key      string
	Name     string
	Homepage string
	RSS      []string
}

// Registry maps site keys to their configuration.
type Registry map[string]Site

// Keys returns all site keys in sorted order so that all-site runs are
// deterministic.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the built-in publisher set. RSS endpoints are used to
// respect crawling policies; adjust per-site as needed.
func Default() Registry {
	return Registry{
		"khan": {
			Key:      "khan",
			Name:     "Kyunghyang Shinmun",
			Homepage: "https://www.khan.co.kr",
			RSS:      []string{"https://www.khan.co.kr/rss/rssdata/total_news.xml"},
		},
		"mk": {
			Key:      "mk",
			Name:     "Maeil Business",
			Homepage: "https://www.mk.co.kr",
			RSS:      []string{"https://www.mk.co.kr/rss/30000001/"},
		},
		"donga": {
			Key:      "donga",
			Name:     "Donga Ilbo",
			Homepage: "https://www.donga.com",
			RSS:      []string{"https://www.donga.com/news/rss"},
		},
		"hankook": {
			Key:      "hankook",
			Name:     "Hankook Ilbo",
			Homepage: "https://www.hankookilbo.com",
			RSS:      []string{"https://www.hankookilbo.com/rss"},
		},
		"asiatoday": {
			Key:      "asiatoday",
			Name:     "AsiaToday",
			Homepage: "https://www.asiatoday.co.kr",
			RSS:      []string{"https://www.asiatoday.co.kr/rss/all.xml"},
		},
		"jtbc": {
			Key:      "jtbc",
			Name:     "JTBC News",
			Homepage: "https://news.jtbc.co.kr",
			RSS:      []string{"https://fs.jtbc.co.kr/RSS/newsflash.xml"},
		},
		"mbc": {
			Key:      "mbc",
			Name:     "MBC News",
			Homepage: "https://imnews.imbc.com",
			RSS:      []string{"https://imnews.imbc.com/rss/news.xml"},
		},
		"ytn": {
			Key:      "ytn",
			Name:     "YTN",
			Homepage: "https://www.ytn.co.kr",
			// sitemap-style feed; adjust if needed
			RSS: []string{"https://www.ytn.co.kr/rss/sitemap.xml"},
		},
		"koreatimes": {
			Key:      "koreatimes",
			Name:     "The Korea Times",
			Homepage: "https://www.koreatimes.co.kr",
			RSS:      []string{"https://www.koreatimes.co.kr/www/rss/nation.xml"},
		},
		"koreaherald": {
			Key:      "koreaherald",
			Name:     "The Korea Herald",
			Homepage: "https://www.koreaherald.com",
			RSS:      []string{"https://www.koreaherald.com/rss/0201.xml"},
		},
	}
}
