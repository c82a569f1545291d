package in

import (
	"context"
	"time"

	"github.com/suchimauz/working-days-api/internal/core/domain"
)

type WorkingDateUseCase interface {
	// Computation of the resulting working date for a single request
	ComputeWorkingDate(ctx context.Context, query domain.WorkingDateQuery) (time.Time, error)

	// Forced refetch of the holiday set, bypassing the TTL
	RefreshHolidays(ctx context.Context) error

	// Invalidation of the cached holiday set; the next request refetches
	InvalidateHolidaysCache(ctx context.Context) error
}
