// Package analysis sends evidence files to the multimodal AI service, one request per
// file, and reports a per-file outcome. A batch never fails as a whole.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"evidenceapi/internal/ai"
	"evidenceapi/internal/model"
	"evidenceapi/internal/storage"
)

// ErrMissingContent means the raw bytes behind a file's content reference are gone.
var ErrMissingContent = errors.New("file data is missing")

// Outcome is the result for one file: either Result or Error is set.
type Outcome struct {
	EvidenceID string                `json:"evidence_id"`
	Result     *model.AnalysisResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Failed reports whether the outcome carries an error instead of a result.
func (o Outcome) Failed() bool { return o.Result == nil }

// Analyzer is the batch analysis contract used by the orchestrator.
type Analyzer interface {
	// Analyze returns exactly one outcome per input file, in input order.
	Analyze(ctx context.Context, files []model.EvidenceFile) []Outcome
}

// Client fans out one extraction per file and waits for all of them.
type Client struct {
	content     storage.Storage
	extractor   ai.MediaExtractor
	maxParallel int
	log         *slog.Logger
	tracer      trace.Tracer
}

var _ Analyzer = (*Client)(nil)

// NewClient builds a Client. maxParallel <= 0 means one goroutine per file.
func NewClient(content storage.Storage, extractor ai.MediaExtractor, maxParallel int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		content:     content,
		extractor:   extractor,
		maxParallel: maxParallel,
		log:         logger,
		tracer:      otel.Tracer("evidenceapi/analysis"),
	}
}

// Analyze never returns an error: every failure, including panics, becomes that file's outcome.
func (c *Client) Analyze(ctx context.Context, files []model.EvidenceFile) []Outcome {
	c.log.InfoContext(ctx, "analysis_batch_started", slog.Int("files", len(files)))

	outcomes := make([]Outcome, len(files))
	var g errgroup.Group
	if c.maxParallel > 0 {
		g.SetLimit(c.maxParallel)
	}
	for i, f := range files {
		g.Go(func() error {
			outcomes[i] = c.analyzeOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	c.log.InfoContext(ctx, "analysis_batch_finished", slog.Int("files", len(files)), slog.Int("failed", failed))
	return outcomes
}

func (c *Client) analyzeOne(ctx context.Context, f model.EvidenceFile) (out Outcome) {
	ctx, span := c.tracer.Start(ctx, "analysis.file", trace.WithAttributes(
		attribute.String("evidence.id", f.ID),
		attribute.String("evidence.type", f.Type),
		attribute.Int64("evidence.size", f.Size),
	))
	defer span.End()

	out.EvidenceID = f.ID
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{EvidenceID: f.ID, Error: fmt.Sprintf("analysis panicked: %v", r)}
		}
		if out.Failed() {
			span.SetStatus(codes.Error, out.Error)
		}
	}()

	data, err := c.readContent(ctx, f)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	res, err := c.extractor.ExtractMedia(ctx, f.Type, data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if res == nil {
		out.Error = ai.ErrInvalidJSON.Error()
		return out
	}
	tagged := res.Clone()
	tagged.FileID = f.ID
	out.Result = &tagged
	return out
}

// readContent resolves the file's content reference. A missing reference fails
// immediately without contacting the AI service.
func (c *Client) readContent(ctx context.Context, f model.EvidenceFile) ([]byte, error) {
	if f.ContentRef == "" || c.content == nil {
		return nil, ErrMissingContent
	}
	data, _, err := storage.ReadAll(ctx, c.content, f.ContentRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrMissingContent
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}
