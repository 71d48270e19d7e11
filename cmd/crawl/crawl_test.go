package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

func TestSelectSources(t *testing.T) {
	t.Parallel()

	table := []*sources.Source{{Name: "alphaxiv"}, {Name: "hf_blog"}, {Name: "ai_times"}}

	all, err := selectSources(table, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := selectSources(table, []string{"ai_times", "alphaxiv"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "alphaxiv", picked[0].Name)
	assert.Equal(t, "ai_times", picked[1].Name)

	_, err = selectSources(table, []string{"arxiv"})
	require.Error(t, err)
}
