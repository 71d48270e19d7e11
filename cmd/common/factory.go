package common

import (
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/enricher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// NewFetcherStack builds the fetch stack from the crawler settings. Callers must Close it.
func (d CommandDeps) NewFetcherStack() *fetcher.Stack {
	c := d.Config.Crawler
	return fetcher.NewStack(fetcher.Config{
		UserAgent:        c.UserAgent,
		RequestTimeout:   c.RequestTimeout,
		MaxBodySize:      c.MaxBodySize,
		BrowserIdleLimit: c.BrowserIdleLimit,
		BrowserSettle:    c.BrowserSettle,
		BrowserTimeout:   c.BrowserTimeout,
		JitterMin:        c.JitterMin,
		JitterMax:        c.JitterMax,
		RespectRobotsTxt: c.RespectRobotsTxt,
	}, d.Logger.WithComponent("fetcher"))
}

// NewEnricher builds the metadata enricher.
func (d CommandDeps) NewEnricher(extractor *content.Extractor) *enricher.Enricher {
	e := d.Config.Enrichment
	return enricher.New(enricher.Config{
		Concurrency:   e.Concurrency,
		TaskTimeout:   e.TaskTimeout,
		IntroMaxChars: e.IntroMaxChars,
		IntroMinLead:  e.IntroMinLead,
	}, extractor, d.Logger.WithComponent("enricher"))
}

// NewContentService builds the body extraction service over the article cache.
func (d CommandDeps) NewContentService(
	stack *fetcher.Stack,
	table []*sources.Source,
	extractor *content.Extractor,
) *content.Service {
	return content.NewService(
		stack,
		table,
		extractor,
		content.NewStore(d.Config.Content.OutputDir),
		d.Logger.WithComponent("content"),
	)
}
