package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// robotsTxtPath is the well-known path for robots.txt files.
const robotsTxtPath = "/robots.txt"

// RobotsGate refuses fetches that the host's robots.txt disallows for the
// configured user agent. Rules are cached per host and shared by every gate
// derived with Wrap.
type RobotsGate struct {
	next  Fetcher
	rules *robotsRules
}

// robotsRules is the robots.txt cache shared by a gate and its wraps.
type robotsRules struct {
	// robots fetches robots.txt files.
	robots    Fetcher
	userAgent string
	cacheTTL  time.Duration
	log       logger.Interface

	loads singleflight.Group
	mu    sync.RWMutex
	cache map[string]*robotsCacheEntry // keyed by scheme://host
}

// robotsCacheEntry stores the parsed robots.txt data for a host.
type robotsCacheEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
	allowAll  bool // true if robots.txt was missing, non-2xx or unparseable
}

// NewRobotsGate wraps next and reads robots.txt through it. Gates derived
// with Wrap keep reading robots.txt through the same fetcher.
func NewRobotsGate(next Fetcher, userAgent string, cacheTTL time.Duration, log logger.Interface) *RobotsGate {
	if cacheTTL <= 0 {
		cacheTTL = defaultRobotsCacheTTL
	}

	return &RobotsGate{
		next: next,
		rules: &robotsRules{
			robots:    next,
			userAgent: userAgent,
			cacheTTL:  cacheTTL,
			log:       log,
			cache:     make(map[string]*robotsCacheEntry),
		},
	}
}

// Wrap returns a gate in front of next that shares this gate's rules cache.
func (g *RobotsGate) Wrap(next Fetcher) *RobotsGate {
	return &RobotsGate{next: next, rules: g.rules}
}

// Fetch implements Fetcher.
func (g *RobotsGate) Fetch(ctx context.Context, rawURL string) (string, error) {
	allowed, err := g.IsAllowed(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}
	return g.next.Fetch(ctx, rawURL)
}

// IsAllowed checks rawURL against the cached rules of its host.
// A missing or unreadable robots.txt allows everything.
func (g *RobotsGate) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return false, fmt.Errorf("robots: parse url: %w", parseErr)
	}

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return false, fmt.Errorf("robots: empty host in url %q", rawURL)
	}

	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}

	entry := g.rules.entry(ctx, scheme+"://"+host)
	if entry.allowAll {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	return entry.data.TestAgent(path, g.rules.userAgent), nil
}

func (r *robotsRules) entry(ctx context.Context, origin string) *robotsCacheEntry {
	if entry, ok := r.cached(origin); ok {
		return entry
	}

	v, _, _ := r.loads.Do(origin, func() (any, error) {
		if entry, ok := r.cached(origin); ok {
			return entry, nil
		}
		loaded := r.load(ctx, origin)

		r.mu.Lock()
		r.cache[origin] = loaded
		r.mu.Unlock()

		return loaded, nil
	})

	return v.(*robotsCacheEntry)
}

func (r *robotsRules) cached(origin string) (*robotsCacheEntry, bool) {
	r.mu.RLock()
	entry, ok := r.cache[origin]
	r.mu.RUnlock()

	if !ok || time.Since(entry.fetchedAt) > r.cacheTTL {
		return nil, false
	}
	return entry, true
}

func (r *robotsRules) load(ctx context.Context, origin string) *robotsCacheEntry {
	entry := &robotsCacheEntry{fetchedAt: time.Now(), allowAll: true}

	body, err := r.robots.Fetch(ctx, origin+robotsTxtPath)
	if err != nil {
		if !errors.Is(err, ErrHTTPStatus) {
			r.log.Warn("robots.txt unavailable, allowing all", "url", origin+robotsTxtPath, "error", err)
		}
		return entry
	}

	data, parseErr := robotstxt.FromString(body)
	if parseErr != nil {
		r.log.Warn("robots.txt unparseable, allowing all", "url", origin+robotsTxtPath, "error", parseErr)
		return entry
	}

	entry.data = data
	entry.allowAll = false

	return entry
}
