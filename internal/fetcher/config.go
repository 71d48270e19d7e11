package fetcher

import "time"

// Default configuration values.
const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodySize    = 10 * 1024 * 1024 // 10 MB
	defaultBrowserSettle  = 2 * time.Second
	defaultBrowserIdle    = 10 * time.Second
	defaultBrowserTimeout = 30 * time.Second
	defaultJitterMin      = 100 * time.Millisecond
	defaultJitterMax      = 500 * time.Millisecond
	defaultRobotsCacheTTL = 24 * time.Hour
)

// Config holds fetcher settings shared by every source.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxBodySize    int
	// BrowserIdleLimit caps the wait for network idle after the body is ready.
	BrowserIdleLimit time.Duration
	// BrowserSettle is slept after network idle and before the DOM is read.
	BrowserSettle  time.Duration
	BrowserTimeout time.Duration
	// ChromePath overrides the Chrome executable lookup.
	ChromePath string
	JitterMin  time.Duration
	JitterMax  time.Duration
	// RespectRobotsTxt wraps every source stack in a RobotsGate.
	RespectRobotsTxt bool
	RobotsCacheTTL   time.Duration
}

// WithDefaults returns a copy of the config with default values applied for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.BrowserIdleLimit <= 0 {
		c.BrowserIdleLimit = defaultBrowserIdle
	}
	if c.BrowserSettle <= 0 {
		c.BrowserSettle = defaultBrowserSettle
	}
	if c.BrowserTimeout <= 0 {
		c.BrowserTimeout = defaultBrowserTimeout
	}
	if c.JitterMin < 0 || c.JitterMax < c.JitterMin {
		c.JitterMin = defaultJitterMin
		c.JitterMax = defaultJitterMax
	}
	if c.RobotsCacheTTL <= 0 {
		c.RobotsCacheTTL = defaultRobotsCacheTTL
	}
	return c
}
