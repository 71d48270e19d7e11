package enricher

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// jsonLDDateKeys are checked in order inside each structured data object.
var jsonLDDateKeys = []string{"datePublished", "publishedDate", "dateCreated", "date"}

// metaDateSelectors are checked in order.
var metaDateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="publication_date"]`,
	`meta[name="date"]`,
	`meta[property="og:published_time"]`,
	`meta[name="pubdate"]`,
}

// ExtractDate returns the publication date of an article page, or "" when
// none is found. Sources are tried in priority order: the readability
// metadata, JSON-LD blocks, meta tags, then the first <time datetime>.
func ExtractDate(html, pageURL string) string {
	if date := readabilityDate(html, pageURL); date != "" {
		return date
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, find := range []func(*goquery.Document) string{jsonLDDate, metaDate, timeDate} {
		if date := find(doc); date != "" {
			return date
		}
	}

	return ""
}

func readabilityDate(html, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil || article.PublishedTime == nil || article.PublishedTime.IsZero() {
		return ""
	}

	return article.PublishedTime.Format(time.RFC3339)
}

func jsonLDDate(doc *goquery.Document) string {
	var date string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		date = dateFromJSON(data)
		return date == ""
	})
	return date
}

// dateFromJSON looks at a top-level object, a top-level array of objects, or an @graph list.
func dateFromJSON(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if date := dateFromObject(v); date != "" {
			return date
		}
		if graph, ok := v["@graph"].([]any); ok {
			return dateFromJSON(graph)
		}
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				if date := dateFromObject(obj); date != "" {
					return date
				}
			}
		}
	}
	return ""
}

func dateFromObject(obj map[string]any) string {
	for _, key := range jsonLDDateKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func metaDate(doc *goquery.Document) string {
	for _, selector := range metaDateSelectors {
		if content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	return ""
}

func timeDate(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("time[datetime]").First().AttrOr("datetime", ""))
}
