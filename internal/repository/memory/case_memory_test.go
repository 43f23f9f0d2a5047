package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidenceapi/internal/model"
	"evidenceapi/internal/repository"
)

func newCase(t *testing.T, r *CaseMemory, id string) *model.Case {
	t.Helper()
	c, err := r.Create(context.Background(), &model.Case{ID: id, Name: id, CreatedAt: time.Now()})
	require.NoError(t, err)
	return c
}

func TestCaseMemory_CreateAndFind(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()

	created := newCase(t, r, "case-1")
	assert.Equal(t, "case-1", created.ID)
	assert.NotNil(t, created.Evidence)

	got, err := r.FindByID(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, "case-1", got.Name)

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseMemory_List(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		newCase(t, r, id)
	}

	all, err := r.List(ctx, repository.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, "a", all.Items[0].ID)
	assert.Equal(t, "c", all.Items[2].ID)

	page, err := r.List(ctx, repository.PageQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].ID)

	past, err := r.List(ctx, repository.PageQuery{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
}

func TestCaseMemory_AppendEvidencePreservesOrder(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()
	newCase(t, r, "case-1")

	require.NoError(t, r.AppendEvidence(ctx, "case-1", model.EvidenceFile{ID: "ev-1", Status: model.StatusNotStarted}))
	require.NoError(t, r.AppendEvidence(ctx, "case-1",
		model.EvidenceFile{ID: "ev-2", Status: model.StatusNotStarted},
		model.EvidenceFile{ID: "ev-3", Status: model.StatusNotStarted},
	))

	got, err := r.FindByID(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, got.Evidence, 3)
	assert.Equal(t, []string{"ev-1", "ev-2", "ev-3"}, []string{got.Evidence[0].ID, got.Evidence[1].ID, got.Evidence[2].ID})

	err = r.AppendEvidence(ctx, "missing", model.EvidenceFile{ID: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseMemory_ReplaceEvidence(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()
	newCase(t, r, "case-1")
	ev := model.EvidenceFile{ID: "ev-1", Name: "a.jpg", Status: model.StatusNotStarted}
	require.NoError(t, r.AppendEvidence(ctx, "case-1", ev))

	t.Run("replaces by id", func(t *testing.T) {
		done := ev.WithResult(model.AnalysisResult{FileID: "ev-1", Summary: "a bag"})
		require.NoError(t, r.ReplaceEvidence(ctx, "case-1", done))

		got, err := r.FindByID(ctx, "case-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Evidence[0].Status)
		require.NotNil(t, got.Evidence[0].AnalysisResult)
		assert.Equal(t, "a bag", got.Evidence[0].AnalysisResult.Summary)
	})

	t.Run("unknown ids are a no-op", func(t *testing.T) {
		assert.NoError(t, r.ReplaceEvidence(ctx, "missing", ev))
		assert.NoError(t, r.ReplaceEvidence(ctx, "case-1", model.EvidenceFile{ID: "ev-9", Status: model.StatusFailed}))

		got, err := r.FindByID(ctx, "case-1")
		require.NoError(t, err)
		assert.Len(t, got.Evidence, 1)
	})
}

func TestCaseMemory_SnapshotsAreIsolated(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()
	newCase(t, r, "case-1")
	require.NoError(t, r.AppendEvidence(ctx, "case-1", model.EvidenceFile{ID: "ev-1", Status: model.StatusNotStarted}))

	snap, err := r.FindByID(ctx, "case-1")
	require.NoError(t, err)
	snap.Evidence[0].Status = model.StatusFailed

	again, err := r.FindByID(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, again.Evidence[0].Status)
}

func TestCaseMemory_ConcurrentReplace(t *testing.T) {
	r := NewCaseMemory()
	ctx := context.Background()
	newCase(t, r, "case-1")

	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, r.AppendEvidence(ctx, "case-1", model.EvidenceFile{ID: string(rune('A' + i)), Status: model.StatusAnalyzing}))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = r.ReplaceEvidence(ctx, "case-1", model.EvidenceFile{ID: id, Status: model.StatusFailed})
		}(string(rune('A' + i)))
	}
	wg.Wait()

	got, err := r.FindByID(ctx, "case-1")
	require.NoError(t, err)
	for _, ev := range got.Evidence {
		assert.Equal(t, model.StatusFailed, ev.Status)
	}
}
