package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields) {}
func (l nopLogger) Info(event string, fields out.LogFields) {}
func (l nopLogger) Warn(event string, fields out.LogFields) {}
func (l nopLogger) Error(event string, fields out.LogFields) {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort { return l }

type spyUseCase struct {
	invalidations int
	refreshes     int
}

func (s *spyUseCase) ComputeWorkingDate(ctx context.Context, query domain.WorkingDateQuery) (time.Time, error) {
	return time.Time{}, nil
}

func (s *spyUseCase) RefreshHolidays(ctx context.Context) error {
	s.refreshes++
	return nil
}

func (s *spyUseCase) InvalidateHolidaysCache(ctx context.Context) error {
	s.invalidations++
	return nil
}

func TestParseCacheRoutingKey(t *testing.T) {
	resource, hitType, err := parseCacheRoutingKey("capta.working-days-svc.holidays.invalidate")
	assert.NoError(t, err)
	assert.Equal(t, "holidays", resource)
	assert.Equal(t, CacheHitTypeInvalidate, hitType)

	_, _, err = parseCacheRoutingKey("junk")
	assert.Error(t, err)
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name              string
		routingKey        string
		wantInvalidations int
		wantRefreshes     int
	}{
		{"invalidate", "capta.working-days-svc.holidays.invalidate", 1, 0},
		{"refresh", "capta.working-days-svc.holidays.refresh", 0, 1},
		{"other resource ignored", "capta.working-days-svc.schedules.invalidate", 0, 0},
		{"unknown hit type ignored", "capta.working-days-svc.holidays.drop", 0, 0},
		{"malformed key ignored", "junk", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := &spyUseCase{}
			listener := &HolidayCacheListener{
				useCase: useCase,
				cfg:     &config.Config{},
				logger:  nopLogger{},
			}

			listener.handleMessage(context.Background(), amqp.Delivery{RoutingKey: tt.routingKey})

			assert.Equal(t, tt.wantInvalidations, useCase.invalidations)
			assert.Equal(t, tt.wantRefreshes, useCase.refreshes)
		})
	}
}
