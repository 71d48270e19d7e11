package listing

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// feedBody returns the document a feed strategy parses: its own URL when set,
// otherwise the listing body.
func (p *Parser) feedBody(ctx context.Context, st sources.Strategy, html string, f fetcher.Fetcher) (string, bool) {
	if st.URL == "" {
		return html, true
	}

	if f == nil {
		p.log.Debug("Skipping strategy that needs a fetch", "strategy", st.Name, "url", st.URL)
		return "", false
	}

	body, err := f.Fetch(ctx, st.URL)
	if err != nil {
		p.log.Warn("Feed strategy fetch failed",
			"strategy", st.Name,
			"url", st.URL,
			"error", err,
		)
		return "", false
	}

	return body, true
}

// parseFeed converts RSS/Atom items into articles. A body that is not a feed yields none.
func (p *Parser) parseFeed(st sources.Strategy, body string) []*domain.Article {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		if st.URL != "" {
			p.log.Warn("Feed strategy could not parse document", "strategy", st.Name, "url", st.URL, "error", err)
		}
		return nil
	}

	articles := make([]*domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		rawURL, ok := p.resolve(item.Link)
		if !ok {
			continue
		}

		article := &domain.Article{
			Title:       cleanText(item.Title),
			URL:         rawURL,
			Date:        itemDate(item),
			Description: htmlText(item.Description),
			Tags:        item.Categories,
		}
		if item.Author != nil {
			article.Author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			article.Author = item.Authors[0].Name
		}
		if article.Description == article.Title {
			article.Description = ""
		}

		articles = append(articles, article)
	}

	return articles
}

func itemDate(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC3339)
	}
	return strings.TrimSpace(item.Published)
}

// htmlText strips markup from an HTML fragment.
func htmlText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return cleanText(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}

	return cleanText(doc.Text())
}
