// Package crawl runs the per-source pipeline: fetch the listing, parse it,
// fill missing dates and descriptions, and report what was filled.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/enricher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/listing"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/observability"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// FetchFailedMessage prefixes the error recorded for a source whose listing could not be fetched.
const FetchFailedMessage = "Failed to fetch page"

// FetcherProvider hands out fetchers for the crawl.
type FetcherProvider interface {
	// ForSource returns a throttled fetcher owned by one source run.
	ForSource(useBrowser bool, minDelay time.Duration) fetcher.Fetcher
	// Direct returns the fetcher used by the concurrent description pass.
	Direct() fetcher.Fetcher
}

// Options tunes a Runner.
type Options struct {
	// DefaultRateLimit applies to sources that set none.
	DefaultRateLimit time.Duration
	// SkipDates disables the per-article date pass for every source.
	SkipDates bool
}

// Runner crawls sources one after another.
type Runner struct {
	provider FetcherProvider
	enricher *enricher.Enricher
	opts     Options
	metrics  *observability.Metrics
	log      logger.Interface
	now      func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(
	provider FetcherProvider,
	enr *enricher.Enricher,
	opts Options,
	metrics *observability.Metrics,
	log logger.Interface,
) *Runner {
	return &Runner{
		provider: provider,
		enricher: enr,
		opts:     opts,
		metrics:  metrics,
		log:      log.WithComponent("crawl"),
		now:      time.Now,
	}
}

// Run crawls the sources in declared order. A failing source yields an error
// record and the run moves on. Cancellation stops the run and returns what
// was collected so far together with the context error.
func (r *Runner) Run(ctx context.Context, table []*sources.Source) ([]domain.SourceResult, error) {
	results := make([]domain.SourceResult, 0, len(table))

	for _, src := range table {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.CrawlSource(ctx, src))
	}

	return results, nil
}

// CrawlSource produces the result for one source.
func (r *Runner) CrawlSource(ctx context.Context, src *sources.Source) domain.SourceResult {
	log := r.log.WithSource(src.Name)
	start := r.now()
	defer func() {
		r.metrics.ObserveSource(src.Name, r.now().Sub(start).Seconds())
	}()

	result := domain.SourceResult{Source: src.Name, URL: src.URL}

	log.Info("Crawling source", "url", src.URL, "fetch", src.Fetch)

	f := r.provider.ForSource(src.UsesBrowser(), r.rateLimit(src))

	html, err := f.Fetch(ctx, src.URL)
	if err != nil {
		kind := fetcher.Kind(err)
		log.Warn("Failed to fetch listing page",
			"url", src.URL,
			"kind", kind,
			"error", err)
		r.metrics.RecordFetchFailure(src.Name, kind)
		return r.failed(result, fmt.Sprintf("%s: %s", FetchFailedMessage, kind))
	}

	articles, strategy := r.parse(ctx, src, html, f, log)
	r.metrics.RecordParsed(src.Name, strategy, len(articles))

	if len(articles) > 0 && !r.opts.SkipDates {
		filled := r.enricher.FillDates(ctx, articles, f, src.ArticleURL)
		log.Info("Date pass finished", "filled", filled)
	}

	if len(articles) > 0 && !src.SkipDescriptions {
		filled := r.enricher.FillDescriptions(ctx, articles, r.provider.Direct(), src.ArticleURL)
		log.Info("Description pass finished", "filled", filled)
	}

	counts := domain.CountFilled(articles)
	r.metrics.RecordFields(src.Name, "date", counts.DatesFilled, counts.Total)
	r.metrics.RecordFields(src.Name, "description", counts.DescriptionsFilled, counts.Total)

	log.WithDuration(r.now().Sub(start)).Info("Source crawled",
		"strategy", strategy,
		"articles", counts.Total,
		"dates_filled", counts.DatesFilled,
		"dates_absent", counts.DatesAbsent(),
		"descriptions_filled", counts.DescriptionsFilled,
		"descriptions_absent", counts.DescriptionsAbsent())

	result.Timestamp = r.now().Format(time.RFC3339)
	result.ArticlesCount = len(articles)
	result.Articles = articles
	return result
}

func (r *Runner) parse(
	ctx context.Context,
	src *sources.Source,
	html string,
	f fetcher.Fetcher,
	log logger.Interface,
) ([]domain.Article, string) {
	parser, err := listing.NewParser(src, log)
	if err != nil {
		log.Warn("Cannot build listing parser", "error", err)
		return []domain.Article{}, ""
	}

	parsed, err := parser.ParseWith(ctx, html, f)
	switch {
	case errors.Is(err, listing.ErrNoCandidates):
		log.Warn("No selector strategy produced articles",
			"url", src.URL,
			"strategies", len(src.Strategies))
		return []domain.Article{}, ""
	case err != nil:
		log.Warn("Failed to parse listing page", "url", src.URL, "error", err)
		return []domain.Article{}, ""
	}

	return parsed.Articles, parsed.Strategy
}

func (r *Runner) failed(result domain.SourceResult, reason string) domain.SourceResult {
	result.Error = reason
	result.Timestamp = r.now().Format(time.RFC3339)
	result.Articles = []domain.Article{}
	return result
}

func (r *Runner) rateLimit(src *sources.Source) time.Duration {
	if src.RateLimit > 0 {
		return src.RateLimit
	}
	return r.opts.DefaultRateLimit
}
