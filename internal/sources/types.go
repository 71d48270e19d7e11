// Package sources loads the per-source strategy table: where each listing
// lives, how to fetch it, and the ordered selector strategies used to parse it.
package sources

import (
	"regexp"
	"strings"
	"time"
)

// Fetch modes.
const (
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// Strategy kinds.
const (
	// KindLink treats every match as an anchor whose text is the title.
	KindLink = "link"
	// KindContainer treats every match as a card holding a heading and a link.
	KindContainer = "container"
	// KindFeed parses the fetched body as RSS or Atom.
	KindFeed = "feed"
)

// Default table values.
const (
	DefaultMaxArticles    = 20
	DefaultMinTitleLength = 1
	DefaultAncestorDepth  = 3
	DefaultTitleSelector  = "h1, h2, h3"
	DefaultLinkSelector   = "a[href]"
)

// Source is one entry of the strategy table.
type Source struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
	// Fetch selects the listing fetch strategy: "http" or "browser".
	Fetch string `mapstructure:"fetch"`
	// RateLimit is the minimum gap between two requests; zero means the crawler default.
	RateLimit time.Duration `mapstructure:"rate_limit"`
	// MaxArticles caps the parsed listing.
	MaxArticles int `mapstructure:"max_articles"`
	// MinTitleLength rejects candidates with shorter titles (navigation chrome).
	MinTitleLength int `mapstructure:"min_title_length"`
	// AncestorDepth bounds the metadata walk up from the title/link node.
	AncestorDepth int `mapstructure:"ancestor_depth"`
	// ExcludeTitlePrefixes and ExcludeTitlePatterns drop non-article markers.
	ExcludeTitlePrefixes []string `mapstructure:"exclude_title_prefixes"`
	ExcludeTitlePatterns []string `mapstructure:"exclude_title_patterns"`
	// SkipDescriptions disables the concurrent description pass for this source.
	SkipDescriptions bool `mapstructure:"skip_descriptions"`
	// Rewrites map listing URLs to the page used for date and content fetches.
	Rewrites   []Rewrite         `mapstructure:"rewrites"`
	Metadata   MetadataSelectors `mapstructure:"metadata"`
	Strategies []Strategy        `mapstructure:"strategies"`

	excludePatterns []*regexp.Regexp
}

// Strategy is one structural pattern for locating article candidates.
type Strategy struct {
	Name     string `mapstructure:"name"`
	Kind     string `mapstructure:"kind"`
	Selector string `mapstructure:"selector"`
	// Title and Link are container-relative selectors.
	Title string `mapstructure:"title"`
	Link  string `mapstructure:"link"`
	// Tags optionally collects tag labels inside a container.
	Tags string `mapstructure:"tags"`
	// URL points the strategy at a different document than the listing
	// page, typically a feed. It is fetched only when the strategy is reached.
	URL string `mapstructure:"url"`
}

// MetadataSelectors are matched inside each ancestor during the walk.
type MetadataSelectors struct {
	Date        string `mapstructure:"date"`
	Author      string `mapstructure:"author"`
	Description string `mapstructure:"description"`
}

// Rewrite replaces the first occurrence of From with To.
type Rewrite struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// ArticleURL applies the source rewrites to an article URL.
func (s *Source) ArticleURL(rawURL string) string {
	for _, rw := range s.Rewrites {
		if rw.From != "" && strings.Contains(rawURL, rw.From) {
			rawURL = strings.Replace(rawURL, rw.From, rw.To, 1)
		}
	}
	return rawURL
}

// ExcludesTitle reports whether a candidate title is a known non-article marker.
func (s *Source) ExcludesTitle(title string) bool {
	for _, prefix := range s.ExcludeTitlePrefixes {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	for _, re := range s.excludePatterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// UsesBrowser reports whether listing and content pages need a headless browser.
func (s *Source) UsesBrowser() bool {
	return s.Fetch == FetchBrowser
}
