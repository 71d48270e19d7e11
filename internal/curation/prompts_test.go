package curation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/curation"
)

func TestLoadPrompt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "academic.md"), []byte("Pick papers.\n{articles_xml}\n"), 0o600))

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		got, err := curation.LoadPrompt(dir, "academic")
		require.NoError(t, err)
		assert.Equal(t, "Pick papers.\n{articles_xml}\n", got)
	})

	t.Run("built-in default", func(t *testing.T) {
		t.Parallel()
		got, err := curation.LoadPrompt(dir, "technews")
		require.NoError(t, err)
		assert.Contains(t, got, `"technews"`)
		assert.Contains(t, got, curation.ArticlesPlaceholder)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "placeholder", template: "Head\n{articles_xml}\nTail", want: "Head\n<x/>\nTail"},
		{name: "appended", template: "Head\n\n", want: "Head\n\n<x/>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, curation.BuildPrompt(tt.template, "<x/>"))
		})
	}
}
