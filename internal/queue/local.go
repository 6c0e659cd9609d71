package queue

import (
	"context"

	"go.uber.org/zap"
)

// LocalPublisher передаёт события обработчику в том же процессе.
// Используется, когда RabbitMQ не настроен.
type LocalPublisher struct {
	handler *Handler
}

func NewLocalPublisher(handler *Handler) *LocalPublisher {
	return &LocalPublisher{handler: handler}
}

func (p *LocalPublisher) Publish(ctx context.Context, key, _ string, body []byte) error {
	return p.handler.Handle(ctx, key, body)
}

// LogDeliverer только пишет события в лог. Используется, когда Telegram не настроен.
type LogDeliverer struct {
	logger *zap.Logger
}

func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) DeliverSubmitted(_ context.Context, ev BookingSubmittedEvent) error {
	d.logger.Info("Booking submitted event",
		zap.String("request_id", ev.RequestID),
		zap.String("hall", ev.HallName))
	return nil
}

func (d *LogDeliverer) DeliverDecided(_ context.Context, ev BookingDecidedEvent) error {
	d.logger.Info("Booking decided event",
		zap.String("request_id", ev.RequestID),
		zap.String("status", ev.Status),
		zap.Int("notifications", len(ev.Notifications)))
	return nil
}
