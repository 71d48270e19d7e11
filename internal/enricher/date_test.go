package enricher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/enricher"
)

func page(head, body string) string {
	return "<!DOCTYPE html><html><head><title>t</title>" + head + "</head><body>" + body + "</body></html>"
}

func TestExtractDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured metadata first",
			html: page(`<meta property="article:published_time" content="2024-03-01T08:00:00Z">
				<meta name="pubdate" content="1999-01-01">`, `<time datetime="1998-01-01">old</time>`),
			want: "2024-03-01T08:00:00Z",
		},
		{
			name: "json-ld object",
			html: page(`<script type="application/ld+json">{"@type":"BlogPosting","publishedDate":"2024-04-02"}</script>
				<meta name="publication_date" content="1999-01-01">`, ""),
			want: "2024-04-02",
		},
		{
			name: "json-ld array",
			html: page(`<script type="application/ld+json">[{"@type":"Organization"},{"dateCreated":"2024-04-03"}]</script>`, ""),
			want: "2024-04-03",
		},
		{
			name: "json-ld graph",
			html: page(`<script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"date":"2024-04-04"}]}</script>`, ""),
			want: "2024-04-04",
		},
		{
			name: "invalid json-ld skipped",
			html: page(`<script type="application/ld+json">{broken</script>
				<meta name="publication_date" content="2024-04-05">`, ""),
			want: "2024-04-05",
		},
		{
			name: "meta order beats document order",
			html: page(`<meta property="og:published_time" content="2024-01-09"><meta name="publication_date" content="2024-04-06">`, ""),
			want: "2024-04-06",
		},
		{
			name: "time element last",
			html: page("", `<p>Posted <time datetime="2024-04-07T10:00:00+09:00">April 7</time></p>`),
			want: "2024-04-07T10:00:00+09:00",
		},
		{
			name: "nothing found",
			html: page("", "<p>No date anywhere.</p><time>yesterday</time>"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enricher.ExtractDate(tt.html, "https://news.example.com/a"))
		})
	}
}
