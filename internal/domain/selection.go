package domain

import "sort"

// Curation categories.
const (
	CategoryAcademic = "academic"
	CategoryTechNews = "technews"
)

// SelectedArticle is one choice returned by the external selector. Index is the
// 0-based position of the article inside its source list.
type SelectedArticle struct {
	Source             string `json:"source"`
	Index              int    `json:"index"`
	Title              string `json:"title"`
	ReasonForSelection string `json:"reason_for_selection"`
}

// CurationResult is the selector output for one category.
type CurationResult struct {
	Category         string            `json:"category"`
	SelectedArticles []SelectedArticle `json:"selected_articles"`
}

// CuratedArticle is a selection resolved back against the crawl lists.
type CuratedArticle struct {
	Source             string `json:"source"`
	Index              int    `json:"index"`
	Title              string `json:"title"`
	URL                string `json:"url"`
	Date               string `json:"date,omitempty"`
	Description        string `json:"description,omitempty"`
	ReasonForSelection string `json:"reason_for_selection,omitempty"`
}

// CuratedCategory groups the resolved selections of one category.
type CuratedCategory struct {
	Category         string           `json:"category"`
	SelectedArticles []CuratedArticle `json:"selected_articles"`
}

// CuratedSnapshot is the on-disk output of one curation run.
type CuratedSnapshot struct {
	RunID      string                     `json:"run_id"`
	Timestamp  string                     `json:"timestamp"`
	CrawlFile  string                     `json:"crawl_file,omitempty"`
	Categories map[string]CuratedCategory `json:"categories"`
}

// All returns every curated article, academic first, then technews, then any other category by name.
func (s *CuratedSnapshot) All() []CuratedArticle {
	var out []CuratedArticle
	for _, name := range s.CategoryNames() {
		out = append(out, s.Categories[name].SelectedArticles...)
	}
	return out
}

// CategoryNames returns the category keys in a stable order.
func (s *CuratedSnapshot) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for _, known := range []string{CategoryAcademic, CategoryTechNews} {
		if _, ok := s.Categories[known]; ok {
			names = append(names, known)
		}
	}
	var rest []string
	for name := range s.Categories {
		if name != CategoryAcademic && name != CategoryTechNews {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
