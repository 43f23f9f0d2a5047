package mocks

import (
	"context"

	"evidenceapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, caseID, query string) (*service.SearchResult, error) {
	args := m.Called(ctx, caseID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}
