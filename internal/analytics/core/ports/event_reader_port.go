package ports

import (
	"context"

	"royalty-analytics-service/internal/analytics/core/domain"
)

// EventReaderPort returns the events matching q. Implementations may push
// scope, search and a coarse month range down to storage.
type EventReaderPort interface {
	ScanEvents(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error)
}
