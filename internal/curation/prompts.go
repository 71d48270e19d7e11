package curation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ArticlesPlaceholder marks where the rendered article XML goes in a prompt template.
const ArticlesPlaceholder = "{articles_xml}"

const defaultPromptTemplate = `Select the most important articles for the "%s" section of this week's AI newsletter.

Prefer articles with lasting significance: new research results, major model or product
releases, and industry shifts. Skip opinion pieces, event notices and near-duplicates.
Select at least 1 and at most 3 articles.

<articles>
` + ArticlesPlaceholder + `
</articles>
`

// LoadPrompt reads <dir>/<category>.md. A missing file yields the built-in template.
func LoadPrompt(dir, category string) (string, error) {
	path := filepath.Join(dir, category+".md")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf(defaultPromptTemplate, category), nil
	}
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}

	return string(data), nil
}

// BuildPrompt embeds articlesXML into template. Templates without the placeholder get the XML appended.
func BuildPrompt(template, articlesXML string) string {
	if strings.Contains(template, ArticlesPlaceholder) {
		return strings.ReplaceAll(template, ArticlesPlaceholder, articlesXML)
	}
	return strings.TrimRight(template, "\n") + "\n\n" + articlesXML + "\n"
}
