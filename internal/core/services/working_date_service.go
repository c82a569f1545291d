package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

type WorkingDateService struct {
	feedPort  out.HolidayFeedPort
	cachePort out.CachePort
	logger    out.LoggerPort
	cfg       *config.Config
	calendar  *BusinessCalendar
	flight    singleflight.Group
}

type holidayEntry struct {
	holidays  domain.HolidaySet
	fetchedAt time.Time
}

func NewWorkingDateService(
	feedPort out.HolidayFeedPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) (*WorkingDateService, error) {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}

	return &WorkingDateService{
		feedPort:  feedPort,
		cachePort: cachePort,
		logger:    logger.WithModule("WorkingDateService"),
		cfg:       cfg,
		calendar:  NewBusinessCalendar(loc),
	}, nil
}

func (s *WorkingDateService) ComputeWorkingDate(ctx context.Context, query domain.WorkingDateQuery) (time.Time, error) {
	s.logger.Info("working_date.compute.started", out.LogFields{
		"date":  query.StartISO,
		"days":  query.Days,
		"hours": query.Hours,
	})

	entry, err := s.getHolidays(ctx)
	if err != nil {
		return time.Time{}, err
	}

	start := time.Now()
	if query.StartISO != "" {
		start, err = s.calendar.ParseUTCInstant(query.StartISO)
		if err != nil {
			s.logger.Warn("working_date.compute.invalid_date", out.LogFields{
				"date":  query.StartISO,
				"error": err.Error(),
			})
			return time.Time{}, err
		}
	}

	// Results for "now"-based requests are not cacheable; for explicit starts
	// the key includes the holiday fetch instant so a refreshed set never
	// serves results computed against the previous one.
	var cacheKey string
	if s.cachePort != nil && s.cfg.Cache.Enabled && query.StartISO != "" {
		cacheKey = fmt.Sprintf("%s|%d|%d|%d", query.StartISO, query.Days, query.Hours, entry.fetchedAt.Unix())
		if result, ok := s.cachePort.GetResult(ctx, cacheKey); ok {
			s.logger.Debug("working_date.compute.cache.hit", out.LogFields{
				"key": cacheKey,
			})
			return result, nil
		}
	}

	result := s.calendar.Compute(start, query.Days, query.Hours, entry.holidays)

	if cacheKey != "" {
		s.cachePort.StoreResult(ctx, cacheKey, result)
	}

	s.logger.Debug("working_date.compute.finished", out.LogFields{
		"result": result.Format(time.RFC3339),
	})

	return result, nil
}

// getHolidays returns the cached holiday set while it is younger than the
// TTL, otherwise refetches. Concurrent callers that observe a stale cache
// are coalesced into a single fetch.
func (s *WorkingDateService) getHolidays(ctx context.Context) (holidayEntry, error) {
	if s.cachePort != nil {
		if holidays, fetchedAt, ok := s.cachePort.GetHolidays(ctx); ok && time.Since(fetchedAt) < s.cfg.Holidays.CacheTTL {
			return holidayEntry{holidays: holidays, fetchedAt: fetchedAt}, nil
		}
	}

	s.logger.Debug("holidays.cache.miss", out.LogFields{})

	v, err, _ := s.flight.Do("holidays", func() (interface{}, error) {
		return s.fetchAndStore(ctx)
	})
	if err != nil {
		return holidayEntry{}, err
	}

	return v.(holidayEntry), nil
}

// fetchAndStore replaces the cache wholesale on success. A failed fetch
// leaves the previous cache state untouched and is reported as
// source-unavailable; a stale entry is never served in its place.
func (s *WorkingDateService) fetchAndStore(ctx context.Context) (holidayEntry, error) {
	holidays, err := s.feedPort.FetchHolidays(ctx)
	if err != nil {
		s.logger.Error("holidays.fetch.failed", out.LogFields{
			"error": err.Error(),
		})
		return holidayEntry{}, domain.NewSourceUnavailable("holidays source unavailable", err)
	}

	fetchedAt := time.Now()
	if s.cachePort != nil {
		s.cachePort.StoreHolidays(ctx, holidays, fetchedAt)
	}

	s.logger.Info("holidays.fetch.success", out.LogFields{
		"count": holidays.Len(),
	})

	return holidayEntry{holidays: holidays, fetchedAt: fetchedAt}, nil
}

// RefreshHolidays forces a refetch regardless of the cached entry's age.
func (s *WorkingDateService) RefreshHolidays(ctx context.Context) error {
	_, err, _ := s.flight.Do("holidays", func() (interface{}, error) {
		return s.fetchAndStore(ctx)
	})
	return err
}

func (s *WorkingDateService) InvalidateHolidaysCache(ctx context.Context) error {
	if s.cachePort == nil {
		return nil
	}

	s.cachePort.InvalidateHolidaysCache(ctx)
	s.logger.Info("holidays.cache.invalidated", out.LogFields{})

	return nil
}
