package canonical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/canonical"
)

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Scheme and host
		{"lowercase scheme and host", "HTTP://Example.COM/Path", "http://example.com/Path"},
		{"path case preserved", "https://example.com/AbC", "https://example.com/AbC"},

		// Fragment
		{"remove fragment", "https://example.com/a#section", "https://example.com/a"},
		{"remove empty fragment", "https://example.com/a#", "https://example.com/a"},

		// Trailing slash
		{"strip trailing slash", "https://example.com/blog/", "https://example.com/blog"},
		{"keep root slash", "https://example.com/", "https://example.com/"},
		{"no path stays empty", "https://example.com", "https://example.com"},
		{"repeated trailing slashes", "https://example.com/a//", "https://example.com/a"},
		{"encoded slash kept", "https://example.com/a%2F", "https://example.com/a%2F"},
		{"encoded slash before trailing slash", "https://example.com/a%2F/", "https://example.com/a%2F"},
		{"escaped segment preserved", "https://example.com/x%20y/", "https://example.com/x%20y"},

		// Query
		{"strip utm params", "https://example.com/a?utm_source=x&id=1", "https://example.com/a?id=1"},
		{"strip ref and source", "https://example.com/a?ref=hn&source=rss&p=2", "https://example.com/a?p=2"},
		{"tracking keys case-insensitive", "https://example.com/a?UTM_Campaign=z&Ref=q", "https://example.com/a"},
		{"keep original key order", "https://example.com/a?z=1&a=2&m=3", "https://example.com/a?z=1&a=2&m=3"},
		{
			"group repeated keys at first appearance",
			"https://example.com/a?x=1&y=2&x=3",
			"https://example.com/a?x=1&x=3&y=2",
		},
		{"re-encode values", "https://example.com/s?q=a+b&t=%7E", "https://example.com/s?q=a+b&t=~"},
		{"empty query dropped", "https://example.com/a?", "https://example.com/a"},
		{
			"all tracking params",
			"https://example.com/?utm_source=a&utm_medium=b&utm_campaign=c&utm_term=d&utm_content=e",
			"https://example.com/",
		},
		{
			"news article id kept",
			"https://www.aitimes.com/news/articleView.html?idxno=12345&utm_source=fb",
			"https://www.aitimes.com/news/articleView.html?idxno=12345",
		},

		// Totality
		{"empty input", "", ""},
		{"unparseable input returned unchanged", "http://[::1", "http://[::1"},
		{"bad query escape returned unchanged", "https://example.com/a?q=%zz", "https://example.com/a?q=%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := canonical.URL(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, canonical.URL(got), "canonicalization must be idempotent")
		})
	}
}

func TestURL_EquivalenceClasses(t *testing.T) {
	t.Parallel()

	base := canonical.URL("http://example.com/a")
	variants := []string{
		"HTTP://Example.com/a/?utm_source=x#f",
		"http://EXAMPLE.com/a#top",
		"http://example.com/a/",
		"http://example.com/a?utm_medium=email&utm_campaign=launch",
		"http://example.com/a?ref=twitter",
	}

	for _, v := range variants {
		assert.Equal(t, base, canonical.URL(v), v)
		assert.True(t, canonical.Equal(v, "http://example.com/a"), v)
	}
}

func TestEqual_EncodedSlashIsDistinct(t *testing.T) {
	t.Parallel()

	assert.False(t, canonical.Equal("https://example.com/a%2F", "https://example.com/a"))
	assert.True(t, canonical.Equal("https://example.com/a%2F/", "https://example.com/a%2F"))
}

func TestEqual_EmptyNeverMatches(t *testing.T) {
	t.Parallel()

	assert.False(t, canonical.Equal("", ""))
	assert.False(t, canonical.Equal("", "https://example.com"))
}

func TestShortHash(t *testing.T) {
	t.Parallel()

	h := canonical.ShortHash("https://huggingface.co/blog/smolvlm")
	assert.Len(t, h, canonical.ShortHashLen)
	assert.Equal(t, h, canonical.ShortHash("https://HuggingFace.co/blog/smolvlm/?utm_source=x"))
	assert.NotEqual(t, h, canonical.ShortHash("https://huggingface.co/blog/other"))
}
