package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"regexp"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSources indicates no sources were found in the table
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrMissingRequiredField indicates a required field is missing
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidSource indicates a source entry cannot be used
	ErrInvalidSource = errors.New("invalid source")
)

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader reads and validates the strategy table.
type Loader struct {
	path string
}

// NewLoader creates a Loader for the YAML file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the file and returns the sources in declared order.
func (l *Loader) Load() ([]*Source, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a strategy table from YAML bytes.
func Parse(data []byte) ([]*Source, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources yaml: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	seen := make(map[string]struct{}, len(file.Sources))
	out := make([]*Source, 0, len(file.Sources))
	for i, raw := range file.Sources {
		src, err := decodeSource(raw)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
		if _, dup := seen[src.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidSource, src.Name)
		}
		seen[src.Name] = struct{}{}

		applyDefaults(src)
		out = append(out, src)
	}

	return out, nil
}

// ByName indexes sources by name.
func ByName(list []*Source) map[string]*Source {
	m := make(map[string]*Source, len(list))
	for _, s := range list {
		m[s.Name] = s
	}
	return m
}

// decodeSource converts a raw YAML map into a Source.
func decodeSource(raw map[string]any) (*Source, error) {
	src := &Source{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           src,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(raw); decodeErr != nil {
		return nil, fmt.Errorf("decode source: %w", decodeErr)
	}

	return src, nil
}

// secondsToDurationHook lets rate limits be written as plain seconds (1.5).
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}

// validate checks one decoded source.
func validate(src *Source) error {
	if src.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}

	if src.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}

	u, err := url.Parse(src.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be an absolute HTTP(S) URL", ErrInvalidSource)
	}

	switch src.Fetch {
	case "", FetchHTTP, FetchBrowser:
	default:
		return fmt.Errorf("%w: unknown fetch mode %q", ErrInvalidSource, src.Fetch)
	}

	if len(src.Strategies) == 0 {
		return fmt.Errorf("%w: strategies", ErrMissingRequiredField)
	}

	for i, st := range src.Strategies {
		switch st.Kind {
		case KindLink, KindContainer:
			if st.Selector == "" {
				return fmt.Errorf("%w: strategies[%d].selector", ErrMissingRequiredField, i)
			}
		case KindFeed:
		default:
			return fmt.Errorf("%w: strategies[%d] has unknown kind %q", ErrInvalidSource, i, st.Kind)
		}
		if st.URL != "" {
			if su, parseErr := url.Parse(st.URL); parseErr != nil || su.Host == "" {
				return fmt.Errorf("%w: strategies[%d].url must be absolute", ErrInvalidSource, i)
			}
		}
	}

	src.excludePatterns = src.excludePatterns[:0]
	for _, pattern := range src.ExcludeTitlePatterns {
		re, compileErr := regexp.Compile(pattern)
		if compileErr != nil {
			return fmt.Errorf("%w: exclude pattern %q: %w", ErrInvalidSource, pattern, compileErr)
		}
		src.excludePatterns = append(src.excludePatterns, re)
	}

	return nil
}

// applyDefaults fills optional fields.
func applyDefaults(src *Source) {
	if src.Fetch == "" {
		src.Fetch = FetchHTTP
	}
	if src.MaxArticles <= 0 {
		src.MaxArticles = DefaultMaxArticles
	}
	if src.MinTitleLength <= 0 {
		src.MinTitleLength = DefaultMinTitleLength
	}
	if src.AncestorDepth <= 0 {
		src.AncestorDepth = DefaultAncestorDepth
	}
	for i := range src.Strategies {
		st := &src.Strategies[i]
		if st.Name == "" {
			st.Name = fmt.Sprintf("%s#%d", st.Kind, i+1)
		}
		if st.Kind == KindContainer {
			if st.Title == "" {
				st.Title = DefaultTitleSelector
			}
			if st.Link == "" {
				st.Link = DefaultLinkSelector
			}
		}
	}
}

// Categories groups source names by category. Categories and the names inside
// them keep table order. Sources without a category are left out.
func Categories(list []*Source) ([]string, map[string][]string) {
	order := make([]string, 0)
	members := make(map[string][]string)
	for _, s := range list {
		if s.Category == "" {
			continue
		}
		if _, seen := members[s.Category]; !seen {
			order = append(order, s.Category)
		}
		members[s.Category] = append(members[s.Category], s.Name)
	}
	return order, members
}
