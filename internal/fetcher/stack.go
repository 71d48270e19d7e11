package fetcher

import (
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Stack builds per-source fetchers. Every source fetcher owns an HTTP client;
// the description pass uses the stack's own client, and browser renders share
// at most one browser process.
type Stack struct {
	cfg     Config
	log     logger.Interface
	http    *HTTPFetcher
	browser *BrowserFetcher
	// robots is nil unless robots.txt is respected.
	robots *RobotsGate
}

// NewStack creates a Stack.
func NewStack(cfg Config, log logger.Interface) *Stack {
	cfg = cfg.WithDefaults()
	httpFetcher := NewHTTPFetcher(cfg)

	s := &Stack{
		cfg:     cfg,
		log:     log,
		http:    httpFetcher,
		browser: NewBrowserFetcher(cfg, httpFetcher, log.WithComponent("browser")),
	}
	if cfg.RespectRobotsTxt {
		s.robots = NewRobotsGate(httpFetcher, cfg.UserAgent, cfg.RobotsCacheTTL, log.WithComponent("robots"))
	}

	return s
}

// Direct returns the unthrottled HTTP fetcher used by the concurrent description pass.
func (s *Stack) Direct() Fetcher {
	return s.gate(s.http)
}

// ForSource returns a throttled fetcher for one source. Each call owns its own
// throttle and HTTP client, so both are per crawler instance.
func (s *Stack) ForSource(useBrowser bool, minDelay time.Duration) Fetcher {
	client := NewHTTPFetcher(s.cfg)

	var base Fetcher = client
	if useBrowser {
		base = s.browser.WithFallback(client)
	}

	return NewThrottled(s.gate(base), NewThrottle(minDelay, s.cfg.JitterMin, s.cfg.JitterMax))
}

// Close releases the browser process.
func (s *Stack) Close() {
	s.browser.Close()
}

func (s *Stack) gate(next Fetcher) Fetcher {
	if s.robots == nil {
		return next
	}
	return s.robots.Wrap(next)
}
