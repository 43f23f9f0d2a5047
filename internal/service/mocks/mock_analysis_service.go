package mocks

import (
	"context"

	"evidenceapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Estimate(ctx context.Context, caseID string, selection []string) (*service.Estimate, error) {
	args := m.Called(ctx, caseID, selection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Estimate), args.Error(1)
}

// Analyze invokes confirm with the estimate passed as the third return value, when set,
// so handler tests exercise the real confirmation path.
func (m *MockAnalysisService) Analyze(ctx context.Context, caseID string, sel *service.Selection, confirm service.ConfirmFunc) (*service.BatchReport, error) {
	args := m.Called(ctx, caseID, sel.IDs())
	if len(args) > 2 {
		if est, ok := args.Get(2).(service.Estimate); ok && confirm != nil && !confirm(ctx, est) {
			return nil, service.ErrNotConfirmed
		}
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchReport), args.Error(1)
}
