package curation

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
)

type xmlSource struct {
	XMLName  xml.Name     `xml:"source"`
	Name     string       `xml:"name,attr"`
	Articles []xmlArticle `xml:"article"`
}

type xmlArticle struct {
	Index       int    `xml:"index,attr"`
	Title       string `xml:"title"`
	URL         string `xml:"url"`
	Date        string `xml:"date"`
	Description string `xml:"description,omitempty"`
}

// RenderXML renders the article lists of the named sources, in order, for the
// selector. Each article carries its 0-based position within its source list,
// which is the index a selection refers back to. Sources without articles are left out.
func RenderXML(order []string, bySource map[string][]domain.Article) (string, error) {
	parts := make([]string, 0, len(order))

	for _, name := range order {
		articles := bySource[name]
		if len(articles) == 0 {
			continue
		}

		src := xmlSource{Name: name, Articles: make([]xmlArticle, len(articles))}
		for i, a := range articles {
			src.Articles[i] = xmlArticle{
				Index:       i,
				Title:       a.Title,
				URL:         a.URL,
				Date:        a.Date,
				Description: a.Description,
			}
		}

		out, err := xml.MarshalIndent(src, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		parts = append(parts, string(out))
	}

	return strings.Join(parts, "\n\n"), nil
}
