// Package enricher fills dates and descriptions that a listing page did not
// carry by fetching the article pages themselves.
package enricher

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Default configuration values.
const (
	defaultConcurrency   = 10
	defaultTaskTimeout   = 30 * time.Second
	defaultIntroMaxChars = 500
	defaultIntroMinLead  = 20
)

// Config holds enrichment settings.
type Config struct {
	// Concurrency caps the description pool.
	Concurrency int
	// TaskTimeout bounds one description fetch and extraction.
	TaskTimeout   time.Duration
	IntroMaxChars int
	IntroMinLead  int
}

// WithDefaults returns a copy of the config with default values applied for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = defaultTaskTimeout
	}
	if c.IntroMaxChars <= 0 {
		c.IntroMaxChars = defaultIntroMaxChars
	}
	if c.IntroMinLead < 0 {
		c.IntroMinLead = defaultIntroMinLead
	}
	return c
}

// PageURL maps an article URL to the page fetched for its metadata.
type PageURL func(rawURL string) string

// Enricher fills missing article fields.
type Enricher struct {
	cfg       Config
	extractor *content.Extractor
	log       logger.Interface
}

// New creates an Enricher.
func New(cfg Config, extractor *content.Extractor, log logger.Interface) *Enricher {
	return &Enricher{
		cfg:       cfg.WithDefaults(),
		extractor: extractor,
		log:       log,
	}
}

// FillDates fetches, one at a time through f, every article page whose date
// is missing and extracts a date from it. It returns the number filled.
func (e *Enricher) FillDates(ctx context.Context, articles []domain.Article, f fetcher.Fetcher, pageURL PageURL) int {
	filled := 0

	for i := range articles {
		if ctx.Err() != nil {
			break
		}

		article := &articles[i]
		if article.Date != "" || article.URL == "" {
			continue
		}

		target := resolvePage(pageURL, article.URL)

		html, err := f.Fetch(ctx, target)
		if err != nil {
			e.log.Warn("Date fetch failed",
				"url", target,
				"kind", fetcher.Kind(err),
				"error", err,
			)
			continue
		}

		date := ExtractDate(html, target)
		if date == "" {
			e.log.Debug("No date found on article page", "url", target)
			continue
		}

		article.Date = date
		filled++
	}

	return filled
}

// FillDescriptions fetches the pages of articles without a description on a
// bounded pool of workers. Each task has its own timeout; a failed task
// leaves its article untouched. Results are written back by slice index.
func (e *Enricher) FillDescriptions(ctx context.Context, articles []domain.Article, f fetcher.Fetcher, pageURL PageURL) int {
	var pending []int
	for i := range articles {
		if articles[i].Description == "" && articles[i].URL != "" {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return 0
	}

	results := make([]string, len(articles))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(e.cfg.Concurrency, len(pending)) {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.describe(ctx, f, resolvePage(pageURL, articles[i].URL))
			}
		}()
	}

send:
	for _, i := range pending {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	filled := 0
	for _, i := range pending {
		if results[i] != "" {
			articles[i].Description = results[i]
			filled++
		}
	}

	return filled
}

// describe fetches one page and derives its introduction.
func (e *Enricher) describe(ctx context.Context, f fetcher.Fetcher, target string) string {
	taskCtx, cancel := context.WithTimeout(ctx, e.cfg.TaskTimeout)
	defer cancel()

	html, err := f.Fetch(taskCtx, target)
	if err != nil {
		e.log.Warn("Description fetch failed",
			"url", target,
			"kind", fetcher.Kind(err),
			"error", err,
		)
		return ""
	}

	markdown, err := e.extractor.ExtractPlain(html, target)
	if err != nil {
		e.log.Warn("Description extraction failed", "url", target, "error", err)
		return ""
	}

	return Introduction(markdown, e.cfg.IntroMinLead, e.cfg.IntroMaxChars)
}

func resolvePage(pageURL PageURL, rawURL string) string {
	if pageURL == nil {
		return rawURL
	}
	return pageURL(rawURL)
}
