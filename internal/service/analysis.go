package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"evidenceapi/internal/analysis"
	"evidenceapi/internal/model"
	"evidenceapi/internal/pricing"
	"evidenceapi/internal/repository"
)

// Estimate is the cost shown to the user before a batch runs.
type Estimate struct {
	CaseID      string   `json:"case_id"`
	EvidenceIDs []string `json:"evidence_ids"`
	Count       int      `json:"count"`
	Cost        float64  `json:"cost"`
	Display     string   `json:"display"`
}

// ConfirmFunc asks the user to accept an estimate. Returning false cancels the batch.
type ConfirmFunc func(ctx context.Context, est Estimate) bool

// BatchReport summarises one executed batch.
type BatchReport struct {
	Estimate  Estimate           `json:"estimate"`
	Outcomes  []analysis.Outcome `json:"outcomes"`
	Completed int                `json:"completed"`
	Failed    int                `json:"failed"`
}

// AnalysisService orchestrates selection, cost estimation, confirmation, status
// transitions and result ingestion for batches of evidence files.
type AnalysisService interface {
	// Estimate prices the NOT_STARTED subset of selection. It never mutates state.
	Estimate(ctx context.Context, caseID string, selection []string) (*Estimate, error)

	// Analyze runs a batch over the NOT_STARTED subset of sel once confirm accepts the
	// estimate. It returns when every file has reached COMPLETED or FAILED and clears sel.
	// A declined confirmation returns ErrNotConfirmed and changes nothing.
	Analyze(ctx context.Context, caseID string, sel *Selection, confirm ConfirmFunc) (*BatchReport, error)
}

type analysisService struct {
	repo         repository.CaseRepository
	analyzer     analysis.Analyzer
	rates        pricing.Rates
	pendingDelay time.Duration
	observers    []AnalysisObserver
	log          *slog.Logger

	mu        sync.Mutex
	caseLocks map[string]*sync.Mutex
}

// AnalysisOption customises NewAnalysisService.
type AnalysisOption func(*analysisService)

// WithPendingDelay sets how long files stay PENDING before moving to ANALYZING.
func WithPendingDelay(d time.Duration) AnalysisOption {
	return func(s *analysisService) { s.pendingDelay = d }
}

// WithObservers registers observers for status transitions.
func WithObservers(obs ...AnalysisObserver) AnalysisOption {
	return func(s *analysisService) { s.observers = append(s.observers, obs...) }
}

// WithLogger sets the logger used for per-file failures.
func WithLogger(l *slog.Logger) AnalysisOption {
	return func(s *analysisService) { s.log = l }
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(repo repository.CaseRepository, analyzer analysis.Analyzer, rates pricing.Rates, opts ...AnalysisOption) AnalysisService {
	s := &analysisService{
		repo:         repo,
		analyzer:     analyzer,
		rates:        rates,
		pendingDelay: 50 * time.Millisecond,
		log:          slog.Default(),
		caseLocks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *analysisService) caseLock(caseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.caseLocks[caseID]
	if !ok {
		l = &sync.Mutex{}
		s.caseLocks[caseID] = l
	}
	return l
}

func (s *analysisService) loadCase(ctx context.Context, caseID string) (*model.Case, error) {
	c, err := s.repo.FindByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

// eligible returns the NOT_STARTED files of c named in ids, in case order.
func eligible(c *model.Case, ids []string) []model.EvidenceFile {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.EvidenceFile
	for _, ev := range c.Evidence {
		if want[ev.ID] && ev.Status == model.StatusNotStarted {
			out = append(out, ev)
		}
	}
	return out
}

func (s *analysisService) estimate(caseID string, files []model.EvidenceFile) Estimate {
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	cost := s.rates.Estimate(files)
	return Estimate{
		CaseID:      caseID,
		EvidenceIDs: ids,
		Count:       len(files),
		Cost:        cost,
		Display:     pricing.FormatCost(cost),
	}
}

func (s *analysisService) Estimate(ctx context.Context, caseID string, selection []string) (*Estimate, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	est := s.estimate(caseID, eligible(c, selection))
	return &est, nil
}

func (s *analysisService) Analyze(ctx context.Context, caseID string, sel *Selection, confirm ConfirmFunc) (*BatchReport, error) {
	if sel == nil {
		sel = NewSelection()
	}
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	files := eligible(c, sel.IDs())
	est := s.estimate(caseID, files)
	if len(files) == 0 {
		return &BatchReport{Estimate: est, Outcomes: []analysis.Outcome{}}, nil
	}
	if confirm == nil || !confirm(ctx, est) {
		return nil, ErrNotConfirmed
	}

	// Once confirmed the batch cannot be aborted: every file must reach a terminal state.
	ctx = context.WithoutCancel(ctx)

	pending, err := s.markPending(ctx, caseID, est.EvidenceIDs)
	if err != nil {
		return nil, err
	}
	// A concurrent batch may have claimed some files since the estimate.
	est = s.estimate(caseID, pending)
	if len(pending) == 0 {
		sel.Clear()
		return &BatchReport{Estimate: est, Outcomes: []analysis.Outcome{}}, nil
	}
	for _, o := range s.observers {
		o.BatchConfirmed(ctx, caseID, len(pending), est.Cost)
	}

	if s.pendingDelay > 0 {
		time.Sleep(s.pendingDelay)
	}

	analyzing := make([]model.EvidenceFile, len(pending))
	for i, ev := range pending {
		analyzing[i] = ev.WithStatus(model.StatusAnalyzing)
		s.write(ctx, caseID, analyzing[i])
	}

	outcomes := s.analyzer.Analyze(ctx, analyzing)
	report := s.ingest(ctx, caseID, analyzing, outcomes)
	report.Estimate = est

	sel.Clear()
	return report, nil
}

// markPending re-checks eligibility under the case lock so a file can only join one batch.
func (s *analysisService) markPending(ctx context.Context, caseID string, ids []string) ([]model.EvidenceFile, error) {
	l := s.caseLock(caseID)
	l.Lock()
	defer l.Unlock()

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	files := eligible(c, ids)
	pending := make([]model.EvidenceFile, len(files))
	for i, ev := range files {
		pending[i] = ev.WithStatus(model.StatusPending)
		s.write(ctx, caseID, pending[i])
	}
	return pending, nil
}

// ingest applies outcomes by evidence ID. Files the analyzer did not report on are failed
// so nothing is left ANALYZING.
func (s *analysisService) ingest(ctx context.Context, caseID string, batch []model.EvidenceFile, outcomes []analysis.Outcome) *BatchReport {
	byID := make(map[string]model.EvidenceFile, len(batch))
	for _, ev := range batch {
		byID[ev.ID] = ev
	}

	report := &BatchReport{Outcomes: make([]analysis.Outcome, 0, len(batch))}
	for _, o := range outcomes {
		ev, ok := byID[o.EvidenceID]
		if !ok {
			continue
		}
		delete(byID, o.EvidenceID)

		if o.Result != nil {
			res := o.Result.Clone()
			res.FileID = ev.ID
			s.write(ctx, caseID, ev.WithResult(res))
			report.Completed++
		} else {
			s.log.ErrorContext(ctx, "evidence_analysis_failed",
				slog.String("case_id", caseID),
				slog.String("evidence_id", ev.ID),
				slog.String("file", ev.Name),
				slog.String("error", o.Error),
			)
			s.write(ctx, caseID, ev.WithStatus(model.StatusFailed))
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, o)
	}

	for _, ev := range batch {
		if _, missing := byID[ev.ID]; !missing {
			continue
		}
		o := analysis.Outcome{EvidenceID: ev.ID, Error: "no analysis outcome returned"}
		s.log.ErrorContext(ctx, "evidence_analysis_failed",
			slog.String("case_id", caseID),
			slog.String("evidence_id", ev.ID),
			slog.String("error", o.Error),
		)
		s.write(ctx, caseID, ev.WithStatus(model.StatusFailed))
		report.Failed++
		report.Outcomes = append(report.Outcomes, o)
	}
	return report
}

func (s *analysisService) write(ctx context.Context, caseID string, ev model.EvidenceFile) {
	if err := s.repo.ReplaceEvidence(ctx, caseID, ev); err != nil {
		s.log.ErrorContext(ctx, "evidence_write_failed",
			slog.String("case_id", caseID),
			slog.String("evidence_id", ev.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	for _, o := range s.observers {
		o.StatusChanged(ctx, caseID, ev)
	}
}
