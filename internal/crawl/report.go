package crawl

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
)

// RenderReport writes the per-source fill counts as a table.
func RenderReport(w io.Writer, results []domain.SourceResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Source", "Status", "Articles", "Dates", "No Date", "Descriptions", "No Description"})

	var total domain.FillCounts
	for i := range results {
		res := &results[i]
		if res.Failed() {
			t.AppendRow(table.Row{res.Source, res.Error, 0, 0, 0, 0, 0})
			continue
		}

		counts := domain.CountFilled(res.Articles)
		total.Total += counts.Total
		total.DatesFilled += counts.DatesFilled
		total.DescriptionsFilled += counts.DescriptionsFilled

		t.AppendRow(table.Row{
			res.Source,
			"ok",
			counts.Total,
			counts.DatesFilled,
			counts.DatesAbsent(),
			counts.DescriptionsFilled,
			counts.DescriptionsAbsent(),
		})
	}

	t.AppendFooter(table.Row{
		"Total",
		"",
		total.Total,
		total.DatesFilled,
		total.DatesAbsent(),
		total.DescriptionsFilled,
		total.DescriptionsAbsent(),
	})

	t.Render()
}
