package listing

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// extractLink treats sel as an anchor: its text is the title and its href the URL.
func (p *Parser) extractLink(_ sources.Strategy, sel *goquery.Selection) *domain.Article {
	title := cleanText(sel.Text())
	href, _ := sel.Attr("href")

	rawURL, ok := p.resolve(href)
	if title == "" || !ok {
		return nil
	}

	article := &domain.Article{Title: title, URL: rawURL}
	p.walkAncestors(sel.Parent(), article)

	return article
}

// extractContainer treats sel as a card holding a heading and a link.
func (p *Parser) extractContainer(st sources.Strategy, sel *goquery.Selection) *domain.Article {
	title := firstText(sel, st.Title)

	var href string
	if goquery.NodeName(sel) == "a" {
		href, _ = sel.Attr("href")
	} else {
		href, _ = sel.Find(st.Link).First().Attr("href")
	}

	rawURL, ok := p.resolve(href)
	if title == "" || !ok {
		return nil
	}

	article := &domain.Article{Title: title, URL: rawURL}
	if st.Tags != "" {
		article.Tags = collectTags(sel.Find(st.Tags))
	}
	p.walkAncestors(sel, article)

	return article
}

// walkAncestors climbs at most AncestorDepth levels from start, capturing the
// first date, author and description seen. It stops once all three are set
// or the document root is passed.
func (p *Parser) walkAncestors(start *goquery.Selection, article *domain.Article) {
	md := p.src.Metadata
	node := start

	for level := 0; level < p.src.AncestorDepth && node.Length() > 0; level++ {
		if article.Date == "" && md.Date != "" {
			article.Date = firstText(node, md.Date)
		}
		if article.Author == "" && md.Author != "" {
			article.Author = firstText(node, md.Author)
		}
		if article.Description == "" && md.Description != "" {
			if desc := firstText(node, md.Description); desc != article.Title {
				article.Description = desc
			}
		}

		if article.Date != "" && article.Author != "" && article.Description != "" {
			return
		}

		node = node.Parent()
	}
}

// firstText returns the cleaned text of the first match under sel with any text.
func firstText(sel *goquery.Selection, selector string) string {
	var out string
	sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = cleanText(s.Text())
		return out == ""
	})
	return out
}

func collectTags(sel *goquery.Selection) []string {
	var tags []string
	seen := make(map[string]struct{})
	sel.Each(func(_ int, s *goquery.Selection) {
		tag := cleanText(s.Text())
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	})
	return tags
}
