package mocks

import (
	"context"

	"evidenceapi/internal/analysis"
	"evidenceapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, files []model.EvidenceFile) []analysis.Outcome {
	args := m.Called(ctx, files)
	if f, ok := args.Get(0).(func(context.Context, []model.EvidenceFile) []analysis.Outcome); ok {
		return f(ctx, files)
	}
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]analysis.Outcome)
}
