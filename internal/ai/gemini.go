package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	genai "google.golang.org/genai"

	"evidenceapi/internal/config"
	"evidenceapi/internal/model"
)

// GeminiClient is a thin wrapper around the official genai client that implements
// MediaExtractor and KeywordExtractor. One call is one GenerateContent request.
type GeminiClient struct {
	cli         *genai.Client
	model       string
	timeout     time.Duration
	maxAttempts int
	log         *slog.Logger
}

var (
	_ MediaExtractor   = (*GeminiClient)(nil)
	_ KeywordExtractor = (*GeminiClient)(nil)
)

// NewGeminiClient builds a client for the Gemini API. The HTTP transport is instrumented
// with otelhttp so each model call shows up as a client span.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &GeminiClient{
		cli:         cli,
		model:       cfg.Model,
		timeout:     cfg.Timeout(),
		maxAttempts: attempts,
		log:         logger,
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// ExtractMedia sends the bytes inline with the analysis schema and decodes the JSON reply.
func (g *GeminiClient) ExtractMedia(ctx context.Context, mimeType string, data []byte) (*model.AnalysisResult, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
	}}
	txt, err := g.generate(ctx, "analysis", contents, analysisInstruction, analysisSchema())
	if err != nil {
		return nil, err
	}
	return DecodeAnalysis(txt)
}

// ExtractKeywords asks the model for the salient keywords of query.
func (g *GeminiClient) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: query}},
	}}
	txt, err := g.generate(ctx, "keywords", contents, keywordInstruction, keywordSchema())
	if err != nil {
		return nil, err
	}
	return DecodeKeywords(txt)
}

func (g *GeminiClient) generate(ctx context.Context, phase string, contents []*genai.Content, instruction string, schema *genai.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(300*(1<<(attempt-1))) * time.Millisecond):
			}
		}
		txt, err := g.once(ctx, contents, cfg)
		if err == nil {
			return txt, nil
		}
		lastErr = err
		g.log.WarnContext(ctx, "llm_request_failed",
			slog.String("phase", phase),
			slog.String("model", g.model),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, context.Canceled) {
			break
		}
	}
	return "", lastErr
}

func (g *GeminiClient) once(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrInvalidJSON
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
