package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

// HolidaysCacheEntry pairs a holiday set with the instant it was fetched.
// The slot is replaced wholesale on refresh, never merged.
type HolidaysCacheEntry struct {
	Holidays  domain.HolidaySet
	FetchedAt time.Time
}

type CacheAdapter struct {
	holidaysEntry *HolidaysCacheEntry
	resultsCache  *lru.Cache[string, time.Time]
	mu            sync.RWMutex
	logger        out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	resultsCache, err := lru.New[string, time.Time](cfg.Cache.ResultsSize)
	if err != nil {
		logger.Error("cache.results.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.ResultsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		resultsCache: resultsCache,
		logger:       logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetHolidays(ctx context.Context) (domain.HolidaySet, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.holidaysEntry == nil {
		c.logger.Debug("cache.holidays.get.miss", out.LogFields{})
		return nil, time.Time{}, false
	}

	c.logger.Debug("cache.holidays.get.hit", out.LogFields{
		"count":     c.holidaysEntry.Holidays.Len(),
		"fetchedAt": c.holidaysEntry.FetchedAt,
	})
	return c.holidaysEntry.Holidays, c.holidaysEntry.FetchedAt, true
}

func (c *CacheAdapter) StoreHolidays(ctx context.Context, holidays domain.HolidaySet, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.holidays.store", out.LogFields{
		"count":     holidays.Len(),
		"fetchedAt": fetchedAt,
	})

	c.holidaysEntry = &HolidaysCacheEntry{
		Holidays:  holidays,
		FetchedAt: fetchedAt,
	}
}

func (c *CacheAdapter) InvalidateHolidaysCache(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.holidays.invalidate", out.LogFields{})

	c.holidaysEntry = nil
	// Cached results were computed against the invalidated set
	c.resultsCache.Purge()
}

func (c *CacheAdapter) GetResult(ctx context.Context, key string) (time.Time, bool) {
	result, exists := c.resultsCache.Get(key)
	if !exists {
		c.logger.Debug("cache.results.get.miss", out.LogFields{
			"key": key,
		})
		return time.Time{}, false
	}

	c.logger.Debug("cache.results.get.hit", out.LogFields{
		"key": key,
	})
	return result, true
}

func (c *CacheAdapter) StoreResult(ctx context.Context, key string, result time.Time) {
	c.logger.Debug("cache.results.store", out.LogFields{
		"key": key,
	})

	c.resultsCache.Add(key, result)
}
