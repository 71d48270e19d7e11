package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	defaultMaxIdleConns          = 20
	defaultMaxIdleConnsPerHost   = 4
	defaultIdleConnTimeout       = 90 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
)

// HTTPFetcher performs direct GET requests through a colly collector with its
// own transport. Clones share that transport, so connections are reused within
// one HTTPFetcher and never across two of them.
type HTTPFetcher struct {
	collector *colly.Collector
}

// NewHTTPFetcher creates an HTTPFetcher with a browser user agent and a fixed request timeout.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	cfg = cfg.WithDefaults()

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.MaxBodySize(cfg.MaxBodySize),
		colly.ParseHTTPErrorResponse(),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.DetectCharset(),
	)
	collector.SetRequestTimeout(cfg.RequestTimeout)
	collector.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	})

	return &HTTPFetcher{collector: collector}
}

// Fetch GETs rawURL and returns the body. Any non-2xx status is a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	c := f.collector.Clone()
	c.Context = ctx

	var (
		status int
		body   []byte
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(rawURL); err != nil {
		return "", classify(rawURL, err)
	}

	if !isSuccessStatus(status) {
		return "", &StatusError{URL: rawURL, Code: status}
	}

	return string(body), nil
}
