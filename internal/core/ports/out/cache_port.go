package out

import (
	"context"
	"time"

	"github.com/suchimauz/working-days-api/internal/core/domain"
)

type CachePort interface {
	// Holiday set cache: a single slot replaced wholesale on refresh.
	// Staleness is judged by the caller against fetchedAt.
	GetHolidays(ctx context.Context) (domain.HolidaySet, time.Time, bool)
	StoreHolidays(ctx context.Context, holidays domain.HolidaySet, fetchedAt time.Time)
	InvalidateHolidaysCache(ctx context.Context)

	// Computed result cache
	GetResult(ctx context.Context, key string) (time.Time, bool)
	StoreResult(ctx context.Context, key string, result time.Time)
}
