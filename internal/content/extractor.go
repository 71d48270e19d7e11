// Package content extracts readable article bodies as markdown and keeps a
// per-source cache of the extracted files.
package content

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	// ErrExtractionFailed is returned when the readability pass rejects the document.
	ErrExtractionFailed = errors.New("content extraction failed")
	// ErrNoContent is returned when extraction succeeds but yields no text.
	ErrNoContent = errors.New("no content extracted")
)

// Extractor converts article pages into markdown.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article body as cleaned markdown with links, images and formatting.
func (e *Extractor) Extract(html, pageURL string) (string, error) {
	body, domain, err := e.readable(html, pageURL)
	if err != nil {
		return "", err
	}

	markdown, err := md.NewConverter(domain, true, nil).ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	markdown = strings.TrimSpace(Cleanup(markdown))
	if markdown == "" {
		return "", ErrNoContent
	}

	return markdown, nil
}

// ExtractPlain returns the article body as markdown without links or images.
func (e *Extractor) ExtractPlain(html, pageURL string) (string, error) {
	body, domain, err := e.readable(html, pageURL)
	if err != nil {
		return "", err
	}

	conv := md.NewConverter(domain, true, nil)
	conv.Remove("img", "picture", "figure", "svg", "video", "iframe")
	conv.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
			return md.String(content)
		},
	})

	markdown, err := conv.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", ErrNoContent
	}

	return markdown, nil
}

// readable runs readability over html and returns the main content HTML and the page host.
func (e *Extractor) readable(html, pageURL string) (body, domain string, err error) {
	if strings.TrimSpace(html) == "" {
		return "", "", ErrNoContent
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: parse url: %w", ErrExtractionFailed, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	body = strings.TrimSpace(article.Content)
	if body == "" {
		return "", "", ErrNoContent
	}

	return body, parsedURL.Host, nil
}
