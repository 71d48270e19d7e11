package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/canonical"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
	fileExt         = ".md"
)

// Frontmatter is the YAML header written above each cached body.
type Frontmatter struct {
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Date   string `yaml:"date"`
	Source string `yaml:"source"`
}

// Store is the on-disk article body cache. Files live at
// <root>/<source>/<short hash of the canonical url>.md.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Path returns the cache file for an article.
func (s *Store) Path(source, rawURL string) string {
	return filepath.Join(s.root, source, canonical.ShortHash(rawURL)+fileExt)
}

// Exists reports whether a body is already cached.
func (s *Store) Exists(source, rawURL string) bool {
	_, err := os.Stat(s.Path(source, rawURL))
	return err == nil
}

// Save writes the frontmatter and markdown body, creating the source directory.
func (s *Store) Save(meta Frontmatter, markdown string) (string, error) {
	path := s.Path(meta.Source, meta.URL)
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	header, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(markdown)
	buf.WriteString("\n")

	if err = os.WriteFile(path, buf.Bytes(), filePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// Load reads a cached file back into its frontmatter and body.
func (s *Store) Load(source, rawURL string) (Frontmatter, string, error) {
	var meta Frontmatter

	data, err := os.ReadFile(s.Path(source, rawURL))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return meta, "", fmt.Errorf("%w: %s", fs.ErrNotExist, rawURL)
		}
		return meta, "", fmt.Errorf("read cache: %w", err)
	}

	rest, ok := bytes.CutPrefix(data, []byte("---\n"))
	if !ok {
		return meta, string(data), nil
	}

	header, body, found := bytes.Cut(rest, []byte("\n---\n"))
	if !found {
		return meta, string(data), nil
	}

	if err = yaml.Unmarshal(header, &meta); err != nil {
		return meta, "", fmt.Errorf("decode frontmatter: %w", err)
	}

	return meta, string(bytes.TrimSpace(body)), nil
}
