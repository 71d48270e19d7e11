package curation

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Curator runs one selection per category.
type Curator struct {
	selector   Selector
	promptsDir string
	log        logger.Interface
}

// NewCurator creates a Curator.
func NewCurator(selector Selector, promptsDir string, log logger.Interface) *Curator {
	return &Curator{
		selector:   selector,
		promptsDir: promptsDir,
		log:        log.WithComponent("curator"),
	}
}

// Curate renders the lists of the given sources, asks the selector for picks
// and resolves them against the same lists. The lists must not be reordered
// between rendering and resolution.
func (c *Curator) Curate(
	ctx context.Context,
	category string,
	order []string,
	bySource map[string][]domain.Article,
) (*domain.CuratedCategory, error) {
	scoped := make(map[string][]domain.Article, len(order))
	names := make([]string, 0, len(order))
	total := 0
	for _, name := range order {
		articles := bySource[name]
		if len(articles) == 0 {
			continue
		}
		scoped[name] = articles
		names = append(names, name)
		total += len(articles)
	}

	log := c.log.With("category", category)
	if total == 0 {
		log.Warn("No articles to curate")
		return nil, ErrEmptySelection
	}

	articlesXML, err := RenderXML(names, scoped)
	if err != nil {
		return nil, err
	}

	template, err := LoadPrompt(c.promptsDir, category)
	if err != nil {
		return nil, err
	}

	log.Info("Curating category", "sources", len(names), "articles", total)

	start := time.Now()
	result, err := c.selector.Select(ctx, Request{
		Category: category,
		Sources:  names,
		Prompt:   BuildPrompt(template, articlesXML),
	})
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", category, err)
	}

	picked, err := Resolve(result, scoped, log)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", category, err)
	}

	log.WithDuration(time.Since(start)).Info("Category curated", "selected", len(picked))

	return &domain.CuratedCategory{Category: category, SelectedArticles: picked}, nil
}
