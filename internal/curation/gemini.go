package curation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
)

const defaultGeminiTimeout = 2 * time.Minute

var systemInstruction = `You curate a weekly AI newsletter. You receive article lists grouped by
source as XML. Every article has an index attribute that is its 0-based
position inside its source. Pick between 1 and 3 articles for the requested
category. Answer with the exact source name and index of each pick, the
article title, and a 2-3 sentence reason in English.`

// GeminiSelector asks a Gemini model for a structured selection.
type GeminiSelector struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiSelector creates a selector. It fails before any network call when apiKey is empty.
func NewGeminiSelector(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiSelector, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	return &GeminiSelector{client: client, model: model, timeout: timeout}, nil
}

// Select implements Selector.
func (g *GeminiSelector) Select(ctx context.Context, req Request) (*domain.CurationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: req.Prompt}},
			Role:  "user",
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(req),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return decodeResult(resp.Text())
}

func decodeResult(respText string) (*domain.CurationResult, error) {
	var result domain.CurationResult
	if err := json.Unmarshal([]byte(respText), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}
	return &result, nil
}

func responseSchema(req Request) *genai.Schema {
	minItems, maxItems := int64(MinSelections), int64(MaxSelections)

	pick := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"source": {Type: genai.TypeString, Enum: req.Sources, Description: "Source name as given in the XML."},
			"index":  {Type: genai.TypeInteger, Description: "0-based article index within its source."},
			"title":  {Type: genai.TypeString},
			"reason_for_selection": {
				Type:        genai.TypeString,
				Description: "Why the article was selected, 2-3 sentences in English.",
			},
		},
		Required: []string{"source", "index", "title", "reason_for_selection"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString, Enum: []string{req.Category}},
			"selected_articles": {
				Type:     genai.TypeArray,
				Items:    pick,
				MinItems: &minItems,
				MaxItems: &maxItems,
			},
		},
		Required: []string{"category", "selected_articles"},
	}
}
