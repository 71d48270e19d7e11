// Package dedup remembers which article URLs went out in recent deliveries
// and drops them from new crawl results.
package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/canonical"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Index is the set of canonical URLs delivered within the window.
type Index struct {
	urls map[string]struct{}
	// Files is the number of snapshot files read into the index.
	Files int
	// Skipped is the number of snapshot files that could not be read.
	Skipped int
}

// NewIndex creates an index holding urls.
func NewIndex(urls ...string) *Index {
	idx := &Index{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		idx.Add(u)
	}
	return idx
}

// Add records rawURL in canonical form. Empty URLs are ignored.
func (i *Index) Add(rawURL string) {
	if key := canonical.URL(rawURL); key != "" {
		i.urls[key] = struct{}{}
	}
}

// Contains reports whether rawURL was delivered. An empty URL never matches.
func (i *Index) Contains(rawURL string) bool {
	key := canonical.URL(rawURL)
	if key == "" {
		return false
	}
	_, ok := i.urls[key]
	return ok
}

// Len returns the number of distinct canonical URLs.
func (i *Index) Len() int {
	return len(i.urls)
}

// Loader builds an Index from newsletter snapshots on disk.
type Loader struct {
	dir     string
	pattern string
	log     logger.Interface
	now     func() time.Time
}

// NewLoader creates a Loader reading files matching pattern inside dir.
func NewLoader(dir, pattern string, log logger.Interface) *Loader {
	return &Loader{dir: dir, pattern: pattern, log: log, now: time.Now}
}

// Load unions the URLs of every snapshot modified within window of now.
// Unreadable files are logged and skipped. A missing directory yields an empty index.
func (l *Loader) Load(window time.Duration) (*Index, error) {
	idx := NewIndex()

	paths, err := filepath.Glob(filepath.Join(l.dir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", l.pattern, err)
	}

	cutoff := l.now().Add(-window)

	for _, path := range paths {
		info, statErr := os.Stat(path)
		if statErr != nil {
			l.log.Warn("Skipping unreadable snapshot", "path", path, "error", statErr)
			idx.Skipped++
			continue
		}
		if info.IsDir() || info.ModTime().Before(cutoff) {
			continue
		}

		if readErr := l.readInto(idx, path); readErr != nil {
			l.log.Warn("Skipping corrupt snapshot", "path", path, "error", readErr)
			idx.Skipped++
			continue
		}
		idx.Files++
	}

	l.log.Info("Duplicate index loaded",
		"files", idx.Files,
		"skipped", idx.Skipped,
		"urls", idx.Len(),
		"window", window.String(),
	)

	return idx, nil
}

func (l *Loader) readInto(idx *Index, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var snapshot domain.Newsletter
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return err
	}

	for _, list := range [][]domain.DeliveredArticle{snapshot.AcademicArticles, snapshot.TechNewsArticles} {
		for _, a := range list {
			idx.Add(a.URL)
		}
	}

	return nil
}

// Stat is the per-source outcome of checking a list against the index.
type Stat struct {
	Total     int
	Duplicate int
	New       int
}

// Filter drops already delivered articles. It returns the kept articles, the
// number removed, and for each kept article its position in the input list,
// all keyed by source. Article order is preserved.
func Filter(
	bySource map[string][]domain.Article,
	idx *Index,
) (filtered map[string][]domain.Article, removed map[string]int, positions map[string][]int) {
	filtered = make(map[string][]domain.Article, len(bySource))
	removed = make(map[string]int, len(bySource))
	positions = make(map[string][]int, len(bySource))

	for source, articles := range bySource {
		kept := make([]domain.Article, 0, len(articles))
		at := make([]int, 0, len(articles))
		for i, a := range articles {
			if idx.Contains(a.URL) {
				continue
			}
			kept = append(kept, a)
			at = append(at, i)
		}
		filtered[source] = kept
		positions[source] = at
		removed[source] = len(articles) - len(kept)
	}

	return filtered, removed, positions
}

// Stats reports per-source totals without modifying anything.
func Stats(bySource map[string][]domain.Article, idx *Index) map[string]Stat {
	stats := make(map[string]Stat, len(bySource))

	for source, articles := range bySource {
		s := Stat{Total: len(articles)}
		for _, a := range articles {
			if idx.Contains(a.URL) {
				s.Duplicate++
			}
		}
		s.New = s.Total - s.Duplicate
		stats[source] = s
	}

	return stats
}
