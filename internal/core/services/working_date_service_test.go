package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

type stubFeed struct {
	mu       sync.Mutex
	calls    int
	holidays domain.HolidaySet
	err      error
	delay    time.Duration
}

func (f *stubFeed) FetchHolidays(ctx context.Context) (domain.HolidaySet, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays, nil
}

func (f *stubFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu         sync.Mutex
	holidays   domain.HolidaySet
	fetchedAt  time.Time
	hasEntry   bool
	results    map[string]time.Time
	resultHits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{results: make(map[string]time.Time)}
}

func (c *fakeCache) GetHolidays(ctx context.Context) (domain.HolidaySet, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasEntry {
		return nil, time.Time{}, false
	}
	return c.holidays, c.fetchedAt, true
}

func (c *fakeCache) StoreHolidays(ctx context.Context, holidays domain.HolidaySet, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays = holidays
	c.fetchedAt = fetchedAt
	c.hasEntry = true
}

func (c *fakeCache) InvalidateHolidaysCache(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays = nil
	c.hasEntry = false
}

func (c *fakeCache) GetResult(ctx context.Context, key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.results[key]
	if ok {
		c.resultHits++
	}
	return result, ok
}

func (c *fakeCache) StoreResult(ctx context.Context, key string, result time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
}

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields) {}
func (l nopLogger) Info(event string, fields out.LogFields) {}
func (l nopLogger) Warn(event string, fields out.LogFields) {}
func (l nopLogger) Error(event string, fields out.LogFields) {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort { return l }

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "America/Bogota"
	cfg.Holidays.CacheTTL = 12 * time.Hour
	cfg.Cache.Enabled = true
	cfg.Cache.ResultsSize = 10
	return cfg
}

func newTestService(t *testing.T, feed *stubFeed, cache *fakeCache) *WorkingDateService {
	t.Helper()
	service, err := NewWorkingDateService(feed, cache, newTestConfig(), nopLogger{})
	require.NoError(t, err)
	return service
}

func TestGetHolidays_CacheHitWithinTTL(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet("2025-04-09")}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)
	ctx := context.Background()

	first, err := service.getHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.callCount())

	second, err := service.getHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.callCount(), "fresh cache must not trigger a second fetch")

	// The very same set instance is shared, not a copy.
	assert.Equal(t,
		reflect.ValueOf(first.holidays).Pointer(),
		reflect.ValueOf(second.holidays).Pointer(),
	)
}

func TestGetHolidays_ExpiredEntryTriggersSingleRefetch(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet("2025-04-09")}
	cache := newFakeCache()
	cache.StoreHolidays(context.Background(), domain.NewHolidaySet("2024-01-01"), time.Now().Add(-13*time.Hour))
	service := newTestService(t, feed, cache)

	entry, err := service.getHolidays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, feed.callCount())
	assert.True(t, entry.holidays.Contains(time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)))
}

func TestGetHolidays_ConcurrentColdCallersCoalesce(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet("2025-04-09"), delay: 50 * time.Millisecond}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.getHolidays(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, feed.callCount(), "concurrent cold-cache callers must share one fetch")
}

func TestGetHolidays_FetchFailureIsSourceUnavailable(t *testing.T) {
	feed := &stubFeed{err: errors.New("connection refused")}
	service := newTestService(t, feed, newFakeCache())

	_, err := service.getHolidays(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindSourceUnavailable, domain.KindOf(err))
}

func TestGetHolidays_StaleEntryIsNotServedOnFailure(t *testing.T) {
	feed := &stubFeed{err: errors.New("timeout")}
	cache := newFakeCache()
	cache.StoreHolidays(context.Background(), domain.NewHolidaySet("2024-01-01"), time.Now().Add(-13*time.Hour))
	service := newTestService(t, feed, cache)

	_, err := service.getHolidays(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindSourceUnavailable, domain.KindOf(err))

	// The previous entry stays in place, untouched by the failed refresh.
	holidays, _, ok := cache.GetHolidays(context.Background())
	assert.True(t, ok)
	assert.True(t, holidays.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestComputeWorkingDate_InvalidDate(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet()}
	service := newTestService(t, feed, newFakeCache())

	_, err := service.ComputeWorkingDate(context.Background(), domain.WorkingDateQuery{
		StartISO: "2025-04-08T10:00:00", // no UTC designator
		Hours:    1,
	})

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInvalidInput, domain.KindOf(err))
}

func TestComputeWorkingDate_ExplicitStartUsesResultCache(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet()}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)
	ctx := context.Background()

	query := domain.WorkingDateQuery{StartISO: "2025-04-08T15:00:00Z", Days: 1, Hours: 2}

	first, err := service.ComputeWorkingDate(ctx, query)
	require.NoError(t, err)

	second, err := service.ComputeWorkingDate(ctx, query)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, cache.resultHits, "second identical request must be served from the result cache")
	assert.Equal(t, 1, feed.callCount())
}

func TestComputeWorkingDate_NowRequestsAreNotCached(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet()}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)

	_, err := service.ComputeWorkingDate(context.Background(), domain.WorkingDateQuery{Hours: 1})
	require.NoError(t, err)

	assert.Empty(t, cache.results)
}

func TestRefreshHolidays_BypassesTTL(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet("2025-04-09")}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)
	ctx := context.Background()

	_, err := service.getHolidays(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, feed.callCount())

	require.NoError(t, service.RefreshHolidays(ctx))
	assert.Equal(t, 2, feed.callCount(), "refresh must fetch even while the cache is fresh")
}

func TestInvalidateHolidaysCache(t *testing.T) {
	feed := &stubFeed{holidays: domain.NewHolidaySet("2025-04-09")}
	cache := newFakeCache()
	service := newTestService(t, feed, cache)
	ctx := context.Background()

	_, err := service.getHolidays(ctx)
	require.NoError(t, err)

	require.NoError(t, service.InvalidateHolidaysCache(ctx))

	_, err = service.getHolidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.callCount(), "invalidation must force a refetch")
}
