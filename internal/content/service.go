package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// defaultContentDelay paces body fetches of sources missing from the table.
const defaultContentDelay = time.Second

// FetcherProvider builds a fetcher for one source.
type FetcherProvider interface {
	ForSource(useBrowser bool, minDelay time.Duration) fetcher.Fetcher
}

// Item is one article whose body should be cached.
type Item struct {
	Source string
	Title  string
	URL    string
	Date   string
}

// Report counts the outcome of a Save batch.
type Report struct {
	Saved   int
	Skipped int
	Failed  int
}

// Service fetches, extracts and caches article bodies.
type Service struct {
	provider  FetcherProvider
	sources   map[string]*sources.Source
	extractor *Extractor
	store     *Store
	log       logger.Interface

	fetchers map[string]fetcher.Fetcher
}

// NewService creates a Service.
func NewService(
	provider FetcherProvider,
	table []*sources.Source,
	extractor *Extractor,
	store *Store,
	log logger.Interface,
) *Service {
	return &Service{
		provider:  provider,
		sources:   sources.ByName(table),
		extractor: extractor,
		store:     store,
		log:       log,
		fetchers:  make(map[string]fetcher.Fetcher),
	}
}

// Save caches every item not already on disk. Failures of a single article are
// logged and counted; only an unusable cache root aborts the batch.
func (s *Service) Save(ctx context.Context, items []Item) (Report, error) {
	var report Report

	if err := os.MkdirAll(s.store.root, dirPermissions); err != nil {
		return report, fmt.Errorf("create content dir: %w", err)
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		log := s.log.WithSource(item.Source).WithURL(item.URL)

		if item.URL == "" {
			log.Warn("Skipping article without url", "title", item.Title)
			report.Skipped++
			continue
		}

		if s.store.Exists(item.Source, item.URL) {
			log.Info("Body already cached", "path", s.store.Path(item.Source, item.URL))
			report.Skipped++
			continue
		}

		path, err := s.saveOne(ctx, item)
		if err != nil {
			log.Warn("Skipping article body", "reason", err.Error(), "kind", fetcher.Kind(err))
			report.Failed++
			continue
		}

		log.Info("Body cached", "path", path)
		report.Saved++
	}

	return report, nil
}

func (s *Service) saveOne(ctx context.Context, item Item) (string, error) {
	f, fetchURL := s.fetcherFor(item)

	html, err := f.Fetch(ctx, fetchURL)
	if err != nil {
		return "", err
	}

	markdown, err := s.extractor.Extract(html, item.URL)
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			return "", fmt.Errorf("%s: %w", fetchURL, err)
		}
		return "", err
	}

	return s.store.Save(Frontmatter{
		Title:  item.Title,
		URL:    item.URL,
		Date:   item.Date,
		Source: item.Source,
	}, markdown)
}

// fetcherFor returns the source's fetcher and the rewritten page URL.
func (s *Service) fetcherFor(item Item) (fetcher.Fetcher, string) {
	src, known := s.sources[item.Source]

	f, ok := s.fetchers[item.Source]
	if !ok {
		if known {
			f = s.provider.ForSource(src.UsesBrowser(), max(src.RateLimit, defaultContentDelay))
		} else {
			f = s.provider.ForSource(false, defaultContentDelay)
		}
		s.fetchers[item.Source] = f
	}

	if known {
		return f, src.ArticleURL(item.URL)
	}
	return f, item.URL
}
