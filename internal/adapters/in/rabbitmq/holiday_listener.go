package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/ports/in"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

type CacheHitType string

const (
	CacheHitTypeInvalidate CacheHitType = "invalidate"
	CacheHitTypeRefresh    CacheHitType = "refresh"
)

const holidaysResource = "holidays"

// HolidayCacheListener consumes cache-control messages published when the
// holiday source announces updated data. Routing key examples:
//
//	capta.working-days-svc.holidays.invalidate
//	capta.working-days-svc.holidays.refresh
type HolidayCacheListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.WorkingDateUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewHolidayCacheListener(useCase in.WorkingDateUseCase, cfg *config.Config, logger out.LoggerPort) (*HolidayCacheListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &HolidayCacheListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *HolidayCacheListener) Start(ctx context.Context) error {
	msgs, err := l.channel.Consume(l.cfg.RabbitMQ.Queue, "", true, false, false, false, nil)
	if err != nil {
		l.logger.Error("rabbitmq.consume.failed", out.LogFields{
			"error": err.Error(),
			"queue": l.cfg.RabbitMQ.Queue,
		})
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				l.handleMessage(ctx, msg)
			}
		}
	}()

	l.logger.Info("holidays.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMQ.Queue,
	})

	return nil
}

func (l *HolidayCacheListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

func (l *HolidayCacheListener) handleMessage(ctx context.Context, msg amqp.Delivery) {
	resource, hitType, err := parseCacheRoutingKey(msg.RoutingKey)
	if err != nil {
		l.logger.Warn("rabbitmq.message.skipped", out.LogFields{
			"routingKey": msg.RoutingKey,
			"error":      err.Error(),
		})
		return
	}

	if resource != holidaysResource {
		l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
			"routingKey": msg.RoutingKey,
			"resource":   resource,
		})
		return
	}

	switch hitType {
	case CacheHitTypeInvalidate:
		if err := l.useCase.InvalidateHolidaysCache(ctx); err != nil {
			l.logger.Error("holidays.cache.invalidate_failed", out.LogFields{
				"error": err.Error(),
			})
		}
	case CacheHitTypeRefresh:
		if err := l.useCase.RefreshHolidays(ctx); err != nil {
			l.logger.Error("holidays.cache.refresh_failed", out.LogFields{
				"error": err.Error(),
			})
		}
	default:
		l.logger.Warn("rabbitmq.message.unknown_hit_type", out.LogFields{
			"routingKey": msg.RoutingKey,
			"hitType":    string(hitType),
		})
	}
}

func parseCacheRoutingKey(routingKey string) (string, CacheHitType, error) {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid routing key: %s", routingKey)
	}

	resource := parts[len(parts)-2]
	hitType := CacheHitType(parts[len(parts)-1])

	return resource, hitType, nil
}
