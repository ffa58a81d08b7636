package port

import (
	"context"

	"dataanalyst/internal/domain"
)

// TableFetcher retrieves the first qualifying table from a web page.
// A nil table with a nil error means the page had no such table.
type TableFetcher interface {
	FetchTable(ctx context.Context, url string) (*domain.Table, error)
}
