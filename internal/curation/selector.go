// Package curation hands crawled article lists to an external selector and
// resolves its picks back to the articles they refer to.
package curation

//go:generate mockgen -destination=mocks/mock_selector.go -package=mocks github.com/jonesrussell/north-cloud/newsdesk/internal/curation Selector

import (
	"context"
	"errors"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/domain"
)

var (
	// ErrMissingAPIKey is returned when the selector has no credential.
	ErrMissingAPIKey = errors.New("curation api key is not configured")
	// ErrEmptySelection is returned when the selector picks nothing usable.
	ErrEmptySelection = errors.New("selector returned no usable articles")
)

// Selection bounds per category.
const (
	MinSelections = 1
	MaxSelections = 3
)

// Request is one category handed to a Selector.
type Request struct {
	Category string
	// Sources lists the source names the selector may answer with.
	Sources []string
	// Prompt is the full instruction text with the article XML embedded.
	Prompt string
}

// Selector picks the most relevant articles of a category.
type Selector interface {
	Select(ctx context.Context, req Request) (*domain.CurationResult, error)
}
