package curate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/config"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/curation"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/dedup"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/observability"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

// ErrNothingCurated is returned when no category produced a selection.
var ErrNothingCurated = errors.New("no category produced a selection")

// ContentSaver caches the bodies of selected articles.
type ContentSaver interface {
	Save(ctx context.Context, items []content.Item) (content.Report, error)
}

// Pipeline runs one curation: latest crawl, duplicate filter, selection per
// category, curated snapshot, then article bodies.
type Pipeline struct {
	cfg      *config.Config
	table    []*sources.Source
	selector curation.Selector
	content  ContentSaver
	metrics  *observability.Metrics
	log      logger.Interface
	now      func() time.Time
}

// NewPipeline creates a Pipeline. A nil saver skips body extraction.
func NewPipeline(
	cfg *config.Config,
	table []*sources.Source,
	selector curation.Selector,
	saver ContentSaver,
	metrics *observability.Metrics,
	log logger.Interface,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		table:    table,
		selector: selector,
		content:  saver,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// Run curates crawlFile, or the latest crawl snapshot when it is empty, and
// returns the path of the curated snapshot.
func (p *Pipeline) Run(ctx context.Context, crawlFile string) (string, error) {
	if crawlFile == "" {
		latest, err := snapshot.Latest(p.cfg.Crawler.OutputDir, snapshot.CrawlPrefix)
		if err != nil {
			return "", err
		}
		crawlFile = latest
	}

	results, err := snapshot.ReadCrawl(crawlFile)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	log := p.log.WithRunID(runID)
	log.Info("Curating crawl snapshot", "path", crawlFile)

	bySource, positions, err := p.filterDelivered(results, log)
	if err != nil {
		return "", err
	}

	curated := &domain.CuratedSnapshot{
		RunID:      runID,
		Timestamp:  p.now().Format(time.RFC3339),
		CrawlFile:  crawlFile,
		Categories: make(map[string]domain.CuratedCategory),
	}

	curator := curation.NewCurator(p.selector, p.cfg.Curation.PromptsDir, log)
	order, members := sources.Categories(p.table)
	for _, category := range order {
		picked, curateErr := curator.Curate(ctx, category, members[category], bySource)
		if errors.Is(curateErr, curation.ErrEmptySelection) {
			log.Warn("Category left without selection", "category", category, "error", curateErr)
			continue
		}
		if curateErr != nil {
			return "", curateErr
		}
		toCrawlPositions(picked, positions)
		curated.Categories[category] = *picked
	}

	if len(curated.Categories) == 0 {
		return "", ErrNothingCurated
	}

	path := snapshot.Path(p.cfg.Curation.OutputDir, snapshot.CuratedPrefix, p.now())
	if err = snapshot.WriteCurated(path, curated); err != nil {
		return "", fmt.Errorf("failed to write curated snapshot: %w", err)
	}
	log.Info("Curated snapshot written", "path", path, "articles", len(curated.All()))

	if p.content != nil {
		report, saveErr := p.content.Save(ctx, content.ItemsFromCurated(curated))
		p.metrics.RecordContent(report.Saved, report.Skipped, report.Failed)
		if saveErr != nil {
			return path, fmt.Errorf("failed to cache article bodies: %w", saveErr)
		}
	}

	return path, nil
}

// filterDelivered drops articles already delivered within the dedup window.
// Positions in the returned lists are the indexes the selector sees; the
// second map gives, per source, the crawl snapshot position of each of them.
func (p *Pipeline) filterDelivered(
	results []domain.SourceResult,
	log logger.Interface,
) (map[string][]domain.Article, map[string][]int, error) {
	bySource, order := snapshot.BySource(results)

	idx, err := dedup.NewLoader(p.cfg.Dedup.Dir, p.cfg.Dedup.Pattern, log).Load(p.cfg.Dedup.Window())
	if err != nil {
		return nil, nil, err
	}

	filtered, removed, positions := dedup.Filter(bySource, idx)
	for _, name := range order {
		if removed[name] == 0 {
			continue
		}
		p.metrics.RecordDuplicates(name, removed[name])
		log.Info("Filtered delivered articles",
			"source", name,
			"removed", removed[name],
			"remaining", len(filtered[name]))
	}

	return filtered, positions, nil
}

// toCrawlPositions rewrites selection indexes from the filtered lists to
// positions in the crawl snapshot the curated file points at.
func toCrawlPositions(picked *domain.CuratedCategory, positions map[string][]int) {
	for i := range picked.SelectedArticles {
		a := &picked.SelectedArticles[i]
		at := positions[a.Source]
		if a.Index >= 0 && a.Index < len(at) {
			a.Index = at[a.Index]
		}
	}
}
