package service

import (
	"context"
	"strings"

	"evidenceapi/internal/model"
	"evidenceapi/internal/search"
)

// KeywordTranslator turns a free-text query into lowercase match keywords.
type KeywordTranslator interface {
	Translate(ctx context.Context, query string) search.Translation
}

// SearchResult is the outcome of one query over a case. EvidenceIDs parallels Results
// and is only used for highlighting.
type SearchResult struct {
	Query       string                 `json:"query"`
	Keywords    []string               `json:"keywords"`
	Fallback    bool                   `json:"fallback"`
	Results     []model.AnalysisResult `json:"results"`
	EvidenceIDs []string               `json:"evidence_ids"`
}

// SearchService scans completed evidence of a case for keyword matches.
type SearchService interface {
	// Search matches every COMPLETED evidence result of the case that contains all
	// keywords of query. Blank queries return an empty result without translation.
	Search(ctx context.Context, caseID, query string) (*SearchResult, error)
}

type searchService struct {
	repo       CaseReader
	translator KeywordTranslator
}

// CaseReader is the read side of the case store used by search.
type CaseReader interface {
	GetCase(ctx context.Context, id string) (*model.Case, error)
}

// NewSearchService constructs a new SearchService.
func NewSearchService(cases CaseReader, translator KeywordTranslator) SearchService {
	return &searchService{repo: cases, translator: translator}
}

func (s *searchService) Search(ctx context.Context, caseID, query string) (*SearchResult, error) {
	res := &SearchResult{
		Query:       strings.TrimSpace(query),
		Keywords:    []string{},
		Results:     []model.AnalysisResult{},
		EvidenceIDs: []string{},
	}
	if res.Query == "" {
		return res, nil
	}
	c, err := s.repo.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	tr := s.translator.Translate(ctx, res.Query)
	res.Fallback = tr.Fallback
	if len(tr.Keywords) == 0 {
		return res, nil
	}
	res.Keywords = tr.Keywords

	for _, ev := range c.Evidence {
		if ev.Status != model.StatusCompleted || ev.AnalysisResult == nil {
			continue
		}
		if matchesAll(ev.AnalysisResult.SearchText(), tr.Keywords) {
			res.Results = append(res.Results, ev.AnalysisResult.Clone())
			res.EvidenceIDs = append(res.EvidenceIDs, ev.ID)
		}
	}
	return res, nil
}

func matchesAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, strings.ToLower(k)) {
			return false
		}
	}
	return true
}
