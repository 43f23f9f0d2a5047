package mocks

import (
	"context"

	"evidenceapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMediaExtractor struct {
	mock.Mock
}

func (m *MockMediaExtractor) ExtractMedia(ctx context.Context, mimeType string, data []byte) (*model.AnalysisResult, error) {
	args := m.Called(ctx, mimeType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

type MockKeywordExtractor struct {
	mock.Mock
}

func (m *MockKeywordExtractor) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
