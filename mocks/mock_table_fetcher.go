package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataanalyst/internal/domain"
)

// MockTableFetcher is a mock implementation of port.TableFetcher.
type MockTableFetcher struct {
	mock.Mock
}

func (m *MockTableFetcher) FetchTable(ctx context.Context, url string) (*domain.Table, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}
