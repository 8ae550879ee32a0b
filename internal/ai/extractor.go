package ai

import (
	"context"
	"errors"
)

// ErrEmptyText is returned when there is no résumé text to extract from.
var ErrEmptyText = errors.New("resume text is empty")

// Extractor turns résumé text into a structured candidate. The result has
// whatever shape the provider produced and must be normalized before use.
type Extractor interface {
	Extract(ctx context.Context, text string) (map[string]any, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, text string) (map[string]any, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, text string) (map[string]any, error) {
	return f(ctx, text)
}
