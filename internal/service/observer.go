package service

import (
	"context"
	"log/slog"

	"evidenceapi/internal/model"
)

// AnalysisObserver is told about every status write the orchestrator makes, in order,
// and about each batch the user confirms.
type AnalysisObserver interface {
	StatusChanged(ctx context.Context, caseID string, ev model.EvidenceFile)
	BatchConfirmed(ctx context.Context, caseID string, files int, cost float64)
}

// LogObserver writes transitions as structured log lines.
type LogObserver struct {
	Log *slog.Logger
}

func (o LogObserver) StatusChanged(ctx context.Context, caseID string, ev model.EvidenceFile) {
	o.Log.DebugContext(ctx, "evidence_status_changed",
		slog.String("case_id", caseID),
		slog.String("evidence_id", ev.ID),
		slog.String("status", string(ev.Status)),
	)
}

func (o LogObserver) BatchConfirmed(ctx context.Context, caseID string, files int, cost float64) {
	o.Log.InfoContext(ctx, "analysis_batch_confirmed",
		slog.String("case_id", caseID),
		slog.Int("files", files),
		slog.Float64("estimated_cost", cost),
	)
}
