package content_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/content"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/fetcher/mocks"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/sources"
)

type providerCall struct {
	browser bool
	delay   time.Duration
}

type fakeProvider struct {
	f     fetcher.Fetcher
	calls []providerCall
}

func (p *fakeProvider) ForSource(useBrowser bool, minDelay time.Duration) fetcher.Fetcher {
	p.calls = append(p.calls, providerCall{browser: useBrowser, delay: minDelay})
	return p.f
}

const serviceTable = `
sources:
  - name: alphaxiv
    url: https://www.alphaxiv.org
    fetch: browser
    rate_limit: 2
    rewrites:
      - from: /abs/
        to: /ko/overview/
    strategies:
      - kind: link
        selector: a
`

func TestService_Save(t *testing.T) {
	t.Parallel()

	table, err := sources.Parse([]byte(serviceTable))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	provider := &fakeProvider{f: f}
	dir := t.TempDir()
	store := content.NewStore(dir)

	cached := content.Item{Source: "alphaxiv", Title: "Cached", URL: "https://www.alphaxiv.org/abs/1"}
	_, err = store.Save(content.Frontmatter{Source: cached.Source, URL: cached.URL, Title: cached.Title}, "old")
	require.NoError(t, err)

	f.EXPECT().Fetch(gomock.Any(), "https://www.alphaxiv.org/ko/overview/2").Return(articlePage, nil)
	f.EXPECT().Fetch(gomock.Any(), "https://news.example.com/3").Return("", &fetcher.StatusError{URL: "https://news.example.com/3", Code: 404})

	svc := content.NewService(provider, table, content.NewExtractor(), store, logger.NewNoOp())
	report, err := svc.Save(context.Background(), []content.Item{
		cached,
		{Source: "alphaxiv", Title: "Fresh", URL: "https://www.alphaxiv.org/abs/2", Date: "2024-05-01"},
		{Source: "unknown", Title: "Gone", URL: "https://news.example.com/3"},
		{Source: "unknown", Title: "No url"},
	})
	require.NoError(t, err)

	assert.Equal(t, content.Report{Saved: 1, Skipped: 2, Failed: 1}, report)
	assert.Equal(t, []providerCall{{browser: true, delay: 2 * time.Second}, {browser: false, delay: time.Second}}, provider.calls)

	meta, body, err := store.Load("alphaxiv", "https://www.alphaxiv.org/abs/2")
	require.NoError(t, err)
	assert.Equal(t, "https://www.alphaxiv.org/abs/2", meta.URL, "frontmatter keeps the listing url")
	assert.Equal(t, "2024-05-01", meta.Date)
	assert.Contains(t, body, "Open-weight language models")
}

func TestService_SaveFailsWhenRootUnusable(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	svc := content.NewService(&fakeProvider{}, nil, content.NewExtractor(), content.NewStore(filepath.Join(file, "sub")), logger.NewNoOp())

	_, err := svc.Save(context.Background(), []content.Item{{Source: "a", URL: "https://a.test"}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, content.ErrNoContent))
}
