package mocks

import (
	"context"

	"evidenceapi/internal/model"
	"evidenceapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Case), args.Error(1)
}

func (m *MockCaseRepository) FindByID(ctx context.Context, id string) (*model.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Case), args.Error(1)
}

func (m *MockCaseRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Case], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Case]), args.Error(1)
}

func (m *MockCaseRepository) AppendEvidence(ctx context.Context, caseID string, files ...model.EvidenceFile) error {
	args := m.Called(ctx, caseID, files)
	return args.Error(0)
}

func (m *MockCaseRepository) ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error {
	args := m.Called(ctx, caseID, ev)
	return args.Error(0)
}
