package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

var errEmptyDocument = errors.New("rendered document is empty")

// renderFunc renders a page and returns its outer HTML.
type renderFunc func(ctx context.Context, rawURL string) (string, error)

// BrowserFetcher renders script-populated pages in headless Chrome. A failed
// render is retried once through the fallback fetcher.
type BrowserFetcher struct {
	cfg      Config
	fallback Fetcher
	log      logger.Interface
	render   renderFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewBrowserFetcher creates a BrowserFetcher. The browser process starts on the first fetch.
func NewBrowserFetcher(cfg Config, fallback Fetcher, log logger.Interface) *BrowserFetcher {
	b := &BrowserFetcher{
		cfg:      cfg.WithDefaults(),
		fallback: fallback,
		log:      log,
	}
	b.render = b.renderChrome
	return b
}

// Fetch renders rawURL, falling back to the direct strategy on failure.
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	return b.fetch(ctx, rawURL, b.fallback)
}

// WithFallback returns a fetcher that renders through the same browser process
// but falls back to the given fetcher.
func (b *BrowserFetcher) WithFallback(fallback Fetcher) Fetcher {
	return browserView{browser: b, fallback: fallback}
}

type browserView struct {
	browser  *BrowserFetcher
	fallback Fetcher
}

func (v browserView) Fetch(ctx context.Context, rawURL string) (string, error) {
	return v.browser.fetch(ctx, rawURL, v.fallback)
}

func (b *BrowserFetcher) fetch(ctx context.Context, rawURL string, fallback Fetcher) (string, error) {
	html, err := b.render(ctx, rawURL)
	if err == nil && strings.TrimSpace(html) != "" {
		return html, nil
	}
	if err == nil {
		err = errEmptyDocument
	}
	if ctx.Err() != nil {
		return "", classify(rawURL, ctx.Err())
	}

	if fallback == nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBrowser, rawURL, err)
	}

	b.log.Warn("Browser fetch failed, falling back to HTTP",
		"url", rawURL,
		"reason", err.Error(),
	)

	return fallback.Fetch(ctx, rawURL)
}

// Close shuts down the browser process if one was started.
func (b *BrowserFetcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCancel != nil {
		b.browserCancel()
		b.allocCancel()
		b.browserCtx, b.browserCancel, b.allocCancel = nil, nil, nil
	}
}

// renderChrome opens a tab, waits for the body and for network idle, settles
// and reads the DOM.
func (b *BrowserFetcher) renderChrome(ctx context.Context, rawURL string) (string, error) {
	browserCtx, err := b.browser()
	if err != nil {
		return "", err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	tabCtx, cancel := context.WithTimeout(tabCtx, b.cfg.BrowserTimeout)
	defer cancel()

	inflight := newInflightTracker()
	chromedp.ListenTarget(tabCtx, inflight.observe)

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		inflight.waitNetworkIdle(b.cfg.BrowserIdleLimit),
		chromedp.Sleep(b.cfg.BrowserSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", rawURL, err)
	}

	return html, nil
}

// browser lazily starts one headless Chrome shared by every tab.
func (b *BrowserFetcher) browser() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	b.browserCtx, b.browserCancel, b.allocCancel = browserCtx, browserCancel, allocCancel

	return browserCtx, nil
}

func (b *BrowserFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserAgent(b.cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if b.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ChromePath))
	}
	return opts
}
