package repository

import (
	"context"

	"evidenceapi/internal/model"
)

// CaseRepository is the evidence store: the single owner of case and evidence state.
// Every read returns a snapshot the caller may keep; every write is a whole-record operation.
// No business logic here, strictly state keeping.
type CaseRepository interface {
	// Create appends a new case. The caller provides ID, StorageLabel and CreatedAt.
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// FindByID returns a snapshot of the case or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Case, error)

	// List returns cases in creation order with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Case], error)

	// AppendEvidence adds files at the end of the case's evidence, preserving their order.
	// It returns ErrNotFound if the case does not exist.
	AppendEvidence(ctx context.Context, caseID string, files ...model.EvidenceFile) error

	// ReplaceEvidence swaps the entry whose ID matches ev.ID. It is a no-op when either
	// the case or the evidence ID is unknown. This is the only way status and result change.
	ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error
}
