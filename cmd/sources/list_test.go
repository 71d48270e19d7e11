package sources_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	cmdsources "github.com/jonesrussell/north-cloud/newsdesk/cmd/sources"
	internalsources "github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmdsources.NewTableRenderer(&buf).RenderTable([]*internalsources.Source{
		{
			Name:             "alphaxiv",
			Category:         "academic",
			URL:              "https://www.alphaxiv.org",
			Fetch:            "browser",
			RateLimit:        2 * time.Second,
			MaxArticles:      20,
			SkipDescriptions: true,
			Strategies: []internalsources.Strategy{
				{Name: "abs-links", Kind: "link"},
				{Name: "article-links", Kind: "link"},
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "alphaxiv")
	assert.Contains(t, out, "abs-links (link)")
	assert.Contains(t, out, "article-links (link)")
	assert.Contains(t, out, "2s")
}
