package curation

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Resolve maps selections back to the articles they refer to by source name
// and position. Picks naming an unknown source or an index outside the list
// are skipped with a warning, repeats are dropped, and at most MaxSelections
// survive.
func Resolve(result *domain.CurationResult, bySource map[string][]domain.Article, log logger.Interface) ([]domain.CuratedArticle, error) {
	if result == nil {
		return nil, ErrEmptySelection
	}

	seen := make(map[string]struct{}, len(result.SelectedArticles))
	out := make([]domain.CuratedArticle, 0, MaxSelections)

	for _, pick := range result.SelectedArticles {
		if len(out) == MaxSelections {
			log.Warn("Selection exceeds limit, dropping remaining picks",
				"category", result.Category,
				"limit", MaxSelections,
				"returned", len(result.SelectedArticles))
			break
		}

		articles, ok := bySource[pick.Source]
		if !ok {
			log.Warn("Selection names unknown source",
				"category", result.Category,
				"source", pick.Source,
				"index", pick.Index)
			continue
		}
		if pick.Index < 0 || pick.Index >= len(articles) {
			log.Warn("Selection index out of range",
				"category", result.Category,
				"source", pick.Source,
				"index", pick.Index,
				"articles", len(articles))
			continue
		}

		key := fmt.Sprintf("%s#%d", pick.Source, pick.Index)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		original := articles[pick.Index]
		title := pick.Title
		if title == "" {
			title = original.Title
		}

		out = append(out, domain.CuratedArticle{
			Source:             pick.Source,
			Index:              pick.Index,
			Title:              title,
			URL:                original.URL,
			Date:               original.Date,
			Description:        original.Description,
			ReasonForSelection: pick.ReasonForSelection,
		})
	}

	if len(out) == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}
