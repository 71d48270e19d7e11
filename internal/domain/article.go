// Package domain holds the records that flow between crawl, dedup, curation and content stages.
package domain

// Article is one candidate listing entry. Empty fields are omitted when serialized.
type Article struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Date        string            `json:"date,omitempty"`
	Author      string            `json:"author,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Content     string            `json:"content,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SourceResult is one source's crawl record inside a crawl snapshot.
type SourceResult struct {
	Source        string    `json:"source"`
	URL           string    `json:"url"`
	Timestamp     string    `json:"timestamp"`
	ArticlesCount int       `json:"articles_count"`
	Articles      []Article `json:"articles"`
	Error         string    `json:"error,omitempty"`
}

// Failed reports whether the listing for this source could not be produced.
func (r *SourceResult) Failed() bool {
	return r.Error != ""
}

// FillCounts tallies how many articles carry a date and a description.
type FillCounts struct {
	Total              int
	DatesFilled        int
	DescriptionsFilled int
}

// DatesAbsent is the number of articles still without a date.
func (c FillCounts) DatesAbsent() int {
	return c.Total - c.DatesFilled
}

// DescriptionsAbsent is the number of articles still without a description.
func (c FillCounts) DescriptionsAbsent() int {
	return c.Total - c.DescriptionsFilled
}

// CountFilled computes FillCounts for a list of articles.
func CountFilled(articles []Article) FillCounts {
	counts := FillCounts{Total: len(articles)}
	for i := range articles {
		if articles[i].Date != "" {
			counts.DatesFilled++
		}
		if articles[i].Description != "" {
			counts.DescriptionsFilled++
		}
	}
	return counts
}
