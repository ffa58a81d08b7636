package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataanalyst/internal/domain"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, bundle domain.Bundle) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, bundle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}
