package out

import (
	"context"

	"github.com/suchimauz/working-days-api/internal/core/domain"
)

// HolidayFeedPort fetches the remote holiday feed and normalizes whatever
// payload shape it returns into a HolidaySet. Malformed entries are dropped,
// never reported; only transport-level failures return an error.
type HolidayFeedPort interface {
	FetchHolidays(ctx context.Context) (domain.HolidaySet, error)
}
