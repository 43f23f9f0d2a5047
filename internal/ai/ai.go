// Package ai adapts the external multimodal AI service. Callers depend on the two
// capability interfaces so the orchestrators can be tested without the network.
package ai

import (
	"context"
	"errors"

	"evidenceapi/internal/model"
)

var (
	// ErrInvalidJSON is returned when the model response cannot be decoded into the schema.
	ErrInvalidJSON = errors.New("ai: invalid JSON from model")
	// ErrNotConfigured is returned by Disabled when no API key was provided.
	ErrNotConfigured = errors.New("ai: service not configured")
)

// MediaExtractor extracts structured evidence attributes from raw media bytes.
// The returned result has no FileID; the caller tags it.
type MediaExtractor interface {
	ExtractMedia(ctx context.Context, mimeType string, data []byte) (*model.AnalysisResult, error)
}

// KeywordExtractor extracts salient search keywords from a free-text query.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// Disabled satisfies both capabilities and always fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) ExtractMedia(context.Context, string, []byte) (*model.AnalysisResult, error) {
	return nil, ErrNotConfigured
}

func (Disabled) ExtractKeywords(context.Context, string) ([]string, error) {
	return nil, ErrNotConfigured
}
