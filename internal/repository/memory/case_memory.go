package memory

import (
	"context"
	"sync"

	"evidenceapi/internal/model"
	"evidenceapi/internal/repository"
)

// CaseMemory is an in-process implementation of repository.CaseRepository.
// State lives for the lifetime of the process only.
type CaseMemory struct {
	mu    sync.RWMutex
	order []string
	cases map[string]*model.Case
}

// NewCaseMemory creates an empty store.
func NewCaseMemory() *CaseMemory {
	return &CaseMemory{cases: make(map[string]*model.Case)}
}

var _ repository.CaseRepository = (*CaseMemory)(nil)

// Create stores a copy of c and returns a snapshot of what was stored.
func (r *CaseMemory) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := c.Clone()
	if stored.Evidence == nil {
		stored.Evidence = []model.EvidenceFile{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[stored.ID]; !ok {
		r.order = append(r.order, stored.ID)
	}
	r.cases[stored.ID] = &stored

	out := stored.Clone()
	return &out, nil
}

// FindByID returns a deep copy of the case.
func (r *CaseMemory) FindByID(ctx context.Context, id string) (*model.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

// List returns cases in creation order using LIMIT/OFFSET semantics.
func (r *CaseMemory) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Case], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}

	items := make([]model.Case, 0, end-start)
	for _, id := range r.order[start:end] {
		items = append(items, r.cases[id].Clone())
	}
	return &repository.PageResult[model.Case]{Items: items, Total: total}, nil
}

// AppendEvidence adds files to the end of the case's evidence list.
func (r *CaseMemory) AppendEvidence(ctx context.Context, caseID string, files ...model.EvidenceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, f := range files {
		c.Evidence = append(c.Evidence, f.Clone())
	}
	return nil
}

// ReplaceEvidence replaces the matching entry in place. Unknown IDs are ignored.
func (r *CaseMemory) ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseID]
	if !ok {
		return nil
	}
	if slot := c.FindEvidence(ev.ID); slot != nil {
		*slot = ev.Clone()
	}
	return nil
}
