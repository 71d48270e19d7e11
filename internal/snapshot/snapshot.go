// Package snapshot reads and writes the flat, timestamped JSON files that
// carry results between pipeline stages: crawl results, curated selections
// and delivered newsletters.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
)

// TimestampLayout is the YYMMDD_HHMM stamp used in file names.
const TimestampLayout = "060102_1504"

// File name prefixes.
const (
	CrawlPrefix      = "crawler_results_"
	CuratedPrefix    = "curated_"
	NewsletterPrefix = "newsletter_"
	jsonExt          = ".json"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

var (
	// ErrSnapshotExists is returned when a snapshot for the same minute was already written.
	ErrSnapshotExists = errors.New("snapshot already exists")
	// ErrNoSnapshot is returned when no snapshot matches.
	ErrNoSnapshot = errors.New("no snapshot found")
)

// Path returns <dir>/<prefix><YYMMDD_HHMM>.json.
func Path(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, prefix+t.Format(TimestampLayout)+jsonExt)
}

// Exists reports whether path is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Latest returns the newest file with prefix in dir, ordered by the stamp in its name.
func Latest(dir, prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*"+jsonExt))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", prefix, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s*%s in %s", ErrNoSnapshot, prefix, jsonExt, dir)
	}

	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// writeJSON creates path exclusively and writes v as indented JSON.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSnapshotExists, path)
		}
		return fmt.Errorf("create snapshot: %w", err)
	}

	if _, err = f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}

	return f.Close()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteCrawl writes one crawl run. Failed sources keep their error record.
func WriteCrawl(path string, results []domain.SourceResult) error {
	for i := range results {
		if results[i].Articles == nil {
			results[i].Articles = []domain.Article{}
		}
		results[i].ArticlesCount = len(results[i].Articles)
	}
	return writeJSON(path, results)
}

// ReadCrawl reads a crawl snapshot.
func ReadCrawl(path string) ([]domain.SourceResult, error) {
	var results []domain.SourceResult
	if err := readJSON(path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// BySource groups the articles of successful sources by name and returns the
// source names in snapshot order.
func BySource(results []domain.SourceResult) (map[string][]domain.Article, []string) {
	bySource := make(map[string][]domain.Article, len(results))
	order := make([]string, 0, len(results))

	for _, r := range results {
		if r.Failed() {
			continue
		}
		if _, dup := bySource[r.Source]; !dup {
			order = append(order, r.Source)
		}
		bySource[r.Source] = append(bySource[r.Source], r.Articles...)
	}

	return bySource, order
}

// WriteCurated writes a curated selection.
func WriteCurated(path string, curated *domain.CuratedSnapshot) error {
	return writeJSON(path, curated)
}

// ReadCurated reads a curated selection.
func ReadCurated(path string) (*domain.CuratedSnapshot, error) {
	var curated domain.CuratedSnapshot
	if err := readJSON(path, &curated); err != nil {
		return nil, err
	}
	return &curated, nil
}

// WriteNewsletter writes a delivery record read later by the duplicate index.
func WriteNewsletter(path string, n *domain.Newsletter) error {
	if n.AcademicArticles == nil {
		n.AcademicArticles = []domain.DeliveredArticle{}
	}
	if n.TechNewsArticles == nil {
		n.TechNewsArticles = []domain.DeliveredArticle{}
	}
	return writeJSON(path, n)
}

// NewsletterFromCurated turns a curated selection into a delivery record.
func NewsletterFromCurated(curated *domain.CuratedSnapshot, t time.Time) *domain.Newsletter {
	n := &domain.Newsletter{
		RunID:     curated.RunID,
		Timestamp: t.Format(time.RFC3339),
	}

	for _, name := range curated.CategoryNames() {
		for _, a := range curated.Categories[name].SelectedArticles {
			delivered := domain.DeliveredArticle{
				Title:  a.Title,
				URL:    a.URL,
				Source: a.Source,
				Reason: a.ReasonForSelection,
			}
			if strings.EqualFold(name, domain.CategoryAcademic) {
				n.AcademicArticles = append(n.AcademicArticles, delivered)
			} else {
				n.TechNewsArticles = append(n.TechNewsArticles, delivered)
			}
		}
	}

	return n
}
