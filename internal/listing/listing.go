// Package listing turns a fetched listing page into candidate articles by
// trying a source's selector strategies in order. The first strategy that
// yields at least one article wins.
package listing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// ErrNoCandidates is returned when every strategy came back empty.
var ErrNoCandidates = errors.New("no strategy produced articles")

// Listing is the outcome of one parse.
type Listing struct {
	// Strategy names the strategy that produced the articles.
	Strategy string
	Articles []domain.Article
}

// Parser parses listing pages of one source.
type Parser struct {
	src  *sources.Source
	base *url.URL
	log  logger.Interface
}

// NewParser creates a Parser for src.
func NewParser(src *sources.Source, log logger.Interface) (*Parser, error) {
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source url %q: %w", src.URL, err)
	}

	return &Parser{src: src, base: base, log: log}, nil
}

// Parse runs the strategies against html. Strategies that point at another
// document are skipped.
func (p *Parser) Parse(html string) (*Listing, error) {
	return p.ParseWith(context.Background(), html, nil)
}

// ParseWith runs the strategies against html. A strategy with its own URL is
// fetched through f only when it is reached.
func (p *Parser) ParseWith(ctx context.Context, html string, f fetcher.Fetcher) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	for _, st := range p.src.Strategies {
		articles := p.runStrategy(ctx, st, doc, html, f)
		if len(articles) == 0 {
			p.log.Debug("Strategy produced no articles", "strategy", st.Name)
			continue
		}

		p.log.Debug("Strategy matched",
			"strategy", st.Name,
			"articles", len(articles),
		)

		return &Listing{Strategy: st.Name, Articles: articles}, nil
	}

	return &Listing{}, ErrNoCandidates
}

func (p *Parser) runStrategy(
	ctx context.Context,
	st sources.Strategy,
	doc *goquery.Document,
	html string,
	f fetcher.Fetcher,
) []domain.Article {
	c := newCollector(p)

	switch st.Kind {
	case sources.KindLink:
		doc.Find(st.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			c.add(p.safeExtract(st, sel, p.extractLink))
			return !c.full()
		})
	case sources.KindContainer:
		doc.Find(st.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			c.add(p.safeExtract(st, sel, p.extractContainer))
			return !c.full()
		})
	case sources.KindFeed:
		body, ok := p.feedBody(ctx, st, html, f)
		if !ok {
			return nil
		}
		for _, article := range p.parseFeed(st, body) {
			c.add(article)
			if c.full() {
				break
			}
		}
	}

	return c.articles
}

// safeExtract recovers from a panicking node so one bad candidate only drops itself.
func (p *Parser) safeExtract(
	st sources.Strategy,
	sel *goquery.Selection,
	extract func(sources.Strategy, *goquery.Selection) *domain.Article,
) (article *domain.Article) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("Skipping candidate after extraction failure",
				"strategy", st.Name,
				"reason", fmt.Sprint(r),
			)
			article = nil
		}
	}()

	return extract(st, sel)
}

// resolve returns href as an absolute http(s) URL against the source root.
func (p *Parser) resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	abs := p.base.ResolveReference(ref)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return "", false
	}

	return abs.String(), true
}

// collector accumulates accepted articles for one strategy.
type collector struct {
	p        *Parser
	seen     map[string]struct{}
	articles []domain.Article
}

func newCollector(p *Parser) *collector {
	return &collector{p: p, seen: make(map[string]struct{})}
}

func (c *collector) full() bool {
	return len(c.articles) >= c.p.src.MaxArticles
}

func (c *collector) add(article *domain.Article) {
	if article == nil || c.full() {
		return
	}
	if article.URL == "" || utf8.RuneCountInString(article.Title) < c.p.src.MinTitleLength {
		return
	}
	if c.p.src.ExcludesTitle(article.Title) {
		c.p.log.Debug("Excluded non-article title", "title", article.Title)
		return
	}
	if _, dup := c.seen[article.URL]; dup {
		return
	}

	c.seen[article.URL] = struct{}{}
	c.articles = append(c.articles, *article)
}

// cleanText collapses whitespace runs to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
