package enricher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/enricher"
)

func TestIntroduction(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("가", 600)

	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "lead text before first heading",
			markdown: "Hello there, this lead is long enough.\n\n# Title\n\nBody",
			want:     "Hello there, this lead is long enough.",
		},
		{
			name:     "short lead falls through to first section",
			markdown: "Hello there.\n# Title\nSection body text.\n## Next\nMore",
			want:     "Section body text.",
		},
		{
			name:     "twelve rune lead is not enough",
			markdown: "Hello there.\n\n# Title\nBody text...",
			want:     "Body text...",
		},
		{
			name:     "heading first, section ends at second heading",
			markdown: "# Title\n\nFirst paragraph.\n\nSecond paragraph.\n\n## Next\nMore",
			want:     "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "heading first, no second heading, cut at blank line",
			markdown: "# Title\nFirst paragraph.\n\nSecond paragraph.",
			want:     "First paragraph.",
		},
		{
			name:     "heading first, single block capped",
			markdown: "# Title\n" + long,
			want:     strings.Repeat("가", 500),
		},
		{
			name:     "no heading, cut at blank line",
			markdown: "Only paragraph one.\n\nParagraph two.",
			want:     "Only paragraph one.",
		},
		{
			name:     "no heading, capped",
			markdown: long,
			want:     strings.Repeat("가", 500),
		},
		{
			name:     "heading only",
			markdown: "# Title",
			want:     "",
		},
		{
			name:     "hash without space is not a heading",
			markdown: "#hashtag text\n\nNext block",
			want:     "#hashtag text",
		},
		{
			name:     "empty",
			markdown: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enricher.Introduction(tt.markdown, 20, 500))
		})
	}
}
