package mocks

import (
	"context"
	"io"
	"time"

	"evidenceapi/internal/model"
	"evidenceapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) CreateCase(ctx context.Context, name string) (*model.Case, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Case), args.Error(1)
}

func (m *MockCaseService) GetCase(ctx context.Context, id string) (*model.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Case), args.Error(1)
}

func (m *MockCaseService) ListCases(ctx context.Context, limit, offset int) (*service.CaseListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CaseListResult), args.Error(1)
}

func (m *MockCaseService) AddEvidence(ctx context.Context, caseID string, uploads []service.Upload) ([]model.EvidenceFile, error) {
	args := m.Called(ctx, caseID, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EvidenceFile), args.Error(1)
}

func (m *MockCaseService) ReplaceEvidence(ctx context.Context, caseID string, ev model.EvidenceFile) error {
	args := m.Called(ctx, caseID, ev)
	return args.Error(0)
}

func (m *MockCaseService) OpenContent(ctx context.Context, caseID, evidenceID string) (io.ReadCloser, *model.EvidenceFile, error) {
	args := m.Called(ctx, caseID, evidenceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.EvidenceFile), args.Error(2)
}

func (m *MockCaseService) ContentURL(ctx context.Context, caseID, evidenceID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, caseID, evidenceID, expiry)
	return args.String(0), args.Error(1)
}
