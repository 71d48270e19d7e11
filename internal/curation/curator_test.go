package curation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/curation"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/curation/mocks"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

func academicLists() map[string][]domain.Article {
	return map[string][]domain.Article{
		"alphaxiv": {
			{Title: "Paper zero", URL: "https://www.alphaxiv.org/abs/0", Date: "2024-05-01"},
			{Title: "Paper one", URL: "https://www.alphaxiv.org/abs/1"},
		},
		"hf_blog": {
			{Title: "Post zero", URL: "https://huggingface.co/blog/zero", Description: "intro"},
		},
		"venturebeat": {
			{Title: "Not academic", URL: "https://venturebeat.com/x"},
		},
	}
}

func TestCurate_ResolvesByPosition(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	selector := mocks.NewMockSelector(ctrl)

	selector.EXPECT().
		Select(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req curation.Request) (*domain.CurationResult, error) {
			assert.Equal(t, "academic", req.Category)
			assert.Equal(t, []string{"alphaxiv", "hf_blog"}, req.Sources)
			assert.Contains(t, req.Prompt, `<source name="alphaxiv">`)
			assert.NotContains(t, req.Prompt, "venturebeat")
			assert.NotContains(t, req.Prompt, curation.ArticlesPlaceholder)

			return &domain.CurationResult{
				Category: "academic",
				SelectedArticles: []domain.SelectedArticle{
					{Source: "alphaxiv", Index: 1, Title: "Paper one", ReasonForSelection: "new result"},
					{Source: "hf_blog", Index: 0, Title: "Post zero", ReasonForSelection: "practical"},
				},
			}, nil
		})

	c := curation.NewCurator(selector, t.TempDir(), logger.NewNoOp())
	got, err := c.Curate(context.Background(), "academic", []string{"alphaxiv", "hf_blog"}, academicLists())
	require.NoError(t, err)

	assert.Equal(t, "academic", got.Category)
	require.Len(t, got.SelectedArticles, 2)
	assert.Equal(t, domain.CuratedArticle{
		Source:             "alphaxiv",
		Index:              1,
		Title:              "Paper one",
		URL:                "https://www.alphaxiv.org/abs/1",
		ReasonForSelection: "new result",
	}, got.SelectedArticles[0])
	assert.Equal(t, "intro", got.SelectedArticles[1].Description)
}

func TestCurate_NoArticlesSkipsSelector(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	selector := mocks.NewMockSelector(ctrl)

	c := curation.NewCurator(selector, t.TempDir(), logger.NewNoOp())
	_, err := c.Curate(context.Background(), "technews", []string{"ai_times"}, academicLists())
	require.ErrorIs(t, err, curation.ErrEmptySelection)
}

func TestCurate_SelectorError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	selector := mocks.NewMockSelector(ctrl)
	boom := errors.New("quota exceeded")
	selector.EXPECT().Select(gomock.Any(), gomock.Any()).Return(nil, boom)

	c := curation.NewCurator(selector, t.TempDir(), logger.NewNoOp())
	_, err := c.Curate(context.Background(), "academic", []string{"alphaxiv"}, academicLists())
	require.ErrorIs(t, err, boom)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	lists := academicLists()

	tests := []struct {
		name    string
		picks   []domain.SelectedArticle
		want    []string
		wantErr error
	}{
		{
			name: "unknown source and out of range skipped",
			picks: []domain.SelectedArticle{
				{Source: "arxiv", Index: 0},
				{Source: "alphaxiv", Index: 7},
				{Source: "alphaxiv", Index: -1},
				{Source: "hf_blog", Index: 0},
			},
			want: []string{"https://huggingface.co/blog/zero"},
		},
		{
			name: "repeats dropped",
			picks: []domain.SelectedArticle{
				{Source: "alphaxiv", Index: 0},
				{Source: "alphaxiv", Index: 0},
			},
			want: []string{"https://www.alphaxiv.org/abs/0"},
		},
		{
			name: "capped at three",
			picks: []domain.SelectedArticle{
				{Source: "alphaxiv", Index: 0},
				{Source: "alphaxiv", Index: 1},
				{Source: "hf_blog", Index: 0},
				{Source: "venturebeat", Index: 0},
			},
			want: []string{
				"https://www.alphaxiv.org/abs/0",
				"https://www.alphaxiv.org/abs/1",
				"https://huggingface.co/blog/zero",
			},
		},
		{
			name:    "nothing usable",
			picks:   []domain.SelectedArticle{{Source: "hf_blog", Index: 3}},
			wantErr: curation.ErrEmptySelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := curation.Resolve(&domain.CurationResult{SelectedArticles: tt.picks}, lists, logger.NewNoOp())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			urls := make([]string, len(got))
			for i, a := range got {
				urls[i] = a.URL
			}
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestResolve_FallsBackToListedTitle(t *testing.T) {
	t.Parallel()

	got, err := curation.Resolve(&domain.CurationResult{
		SelectedArticles: []domain.SelectedArticle{{Source: "hf_blog", Index: 0}},
	}, academicLists(), logger.NewNoOp())
	require.NoError(t, err)
	assert.Equal(t, "Post zero", got[0].Title)
}

func TestNewGeminiSelector_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := curation.NewGeminiSelector(context.Background(), "", "gemini-2.5-flash", 0)
	require.ErrorIs(t, err, curation.ErrMissingAPIKey)
}
