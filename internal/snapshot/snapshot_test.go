package snapshot_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/snapshot"
)

var stamp = time.Date(2024, 5, 7, 14, 3, 0, 0, time.UTC)

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		filepath.Join("data", "crawler_results_240507_1403.json"),
		snapshot.Path("data", snapshot.CrawlPrefix, stamp),
	)
}

func TestWriteCrawl_SparseArticlesAndErrorRecords(t *testing.T) {
	t.Parallel()

	path := snapshot.Path(t.TempDir(), snapshot.CrawlPrefix, stamp)
	results := []domain.SourceResult{
		{
			Source:    "hf_blog",
			URL:       "https://huggingface.co/blog",
			Timestamp: stamp.Format(time.RFC3339),
			Articles:  []domain.Article{{Title: "Tiny <models>", URL: "https://huggingface.co/blog/tiny"}},
		},
		{
			Source:    "venturebeat",
			URL:       "https://venturebeat.com/category/ai/",
			Timestamp: stamp.Format(time.RFC3339),
			Error:     "Failed to fetch page",
		},
	}

	require.NoError(t, snapshot.WriteCrawl(path, results))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)

	article := decoded[0]["articles"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"title": "Tiny <models>", "url": "https://huggingface.co/blog/tiny"}, article)
	assert.InDelta(t, 1, decoded[0]["articles_count"], 0)
	assert.Contains(t, string(raw), "Tiny <models>", "html characters are not escaped")

	assert.Equal(t, "Failed to fetch page", decoded[1]["error"])
	assert.Equal(t, []any{}, decoded[1]["articles"])
	assert.InDelta(t, 0, decoded[1]["articles_count"], 0)

	back, err := snapshot.ReadCrawl(path)
	require.NoError(t, err)
	assert.True(t, back[1].Failed())

	bySource, order := snapshot.BySource(back)
	assert.Equal(t, []string{"hf_blog"}, order)
	assert.Len(t, bySource["hf_blog"], 1)
}

func TestWriteCrawl_SameMinuteRefused(t *testing.T) {
	t.Parallel()

	path := snapshot.Path(t.TempDir(), snapshot.CrawlPrefix, stamp)
	require.NoError(t, snapshot.WriteCrawl(path, nil))
	require.ErrorIs(t, snapshot.WriteCrawl(path, nil), snapshot.ErrSnapshotExists)
	assert.True(t, snapshot.Exists(path))
}

func TestLatest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := snapshot.Latest(dir, snapshot.CrawlPrefix)
	require.ErrorIs(t, err, snapshot.ErrNoSnapshot)

	for _, ts := range []time.Time{stamp, stamp.Add(-48 * time.Hour), stamp.Add(-time.Minute)} {
		require.NoError(t, snapshot.WriteCrawl(snapshot.Path(dir, snapshot.CrawlPrefix, ts), nil))
	}
	require.NoError(t, snapshot.WriteCurated(snapshot.Path(dir, snapshot.CuratedPrefix, stamp.Add(time.Hour)), &domain.CuratedSnapshot{}))

	latest, err := snapshot.Latest(dir, snapshot.CrawlPrefix)
	require.NoError(t, err)
	assert.Equal(t, "crawler_results_240507_1403.json", filepath.Base(latest))
}

func TestNewsletterFromCurated(t *testing.T) {
	t.Parallel()

	curated := &domain.CuratedSnapshot{
		RunID: "run-1",
		Categories: map[string]domain.CuratedCategory{
			domain.CategoryTechNews: {SelectedArticles: []domain.CuratedArticle{
				{Source: "venturebeat", Title: "T", URL: "https://vb.test/t", ReasonForSelection: "timely"},
			}},
			domain.CategoryAcademic: {SelectedArticles: []domain.CuratedArticle{
				{Source: "alphaxiv", Title: "A", URL: "https://ax.test/abs/1"},
			}},
		},
	}

	n := snapshot.NewsletterFromCurated(curated, stamp)
	require.Len(t, n.AcademicArticles, 1)
	require.Len(t, n.TechNewsArticles, 1)
	assert.Equal(t, "timely", n.TechNewsArticles[0].Reason)
	assert.Equal(t, "run-1", n.RunID)

	path := snapshot.Path(t.TempDir(), snapshot.NewsletterPrefix, stamp)
	require.NoError(t, snapshot.WriteNewsletter(path, n))

	var back domain.Newsletter
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "https://ax.test/abs/1", back.AcademicArticles[0].URL)
}

func TestCuratedRoundTrip(t *testing.T) {
	t.Parallel()

	path := snapshot.Path(t.TempDir(), snapshot.CuratedPrefix, stamp)
	in := &domain.CuratedSnapshot{
		RunID:     "r",
		Timestamp: stamp.Format(time.RFC3339),
		Categories: map[string]domain.CuratedCategory{
			domain.CategoryAcademic: {Category: domain.CategoryAcademic, SelectedArticles: []domain.CuratedArticle{{Source: "hf_blog", Index: 2, Title: "x", URL: "https://hf.co/x"}}},
		},
	}
	require.NoError(t, snapshot.WriteCurated(path, in))

	out, err := snapshot.ReadCurated(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
