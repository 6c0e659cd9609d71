package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

// EventPublisher отправляет событие outbox во внешний мир
type EventPublisher interface {
	Publish(ctx context.Context, key, messageID string, body []byte) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	store     store.Store
	publisher EventPublisher
	interval  time.Duration
	batch     int
	logger    *zap.Logger
	stopChan  chan struct{}
	done      chan struct{}
}

// NewScheduler создаёт новый планировщик ретрансляции outbox
func NewScheduler(st store.Store, publisher EventPublisher, interval time.Duration, batch int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:     st,
		publisher: publisher,
		interval:  interval,
		batch:     batch,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("outbox_interval", s.interval))

	go s.runOutboxRelayTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runOutboxRelayTask периодически публикует события из outbox
func (s *Scheduler) runOutboxRelayTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.relayOutbox(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.relayOutbox(ctx)
		case <-s.stopChan:
			s.logger.Info("Outbox relay task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Outbox relay task cancelled")
			return
		}
	}
}

// relayOutbox публикует пачку событий. Возвращает количество опубликованных.
// Событие помечается отправленным только после успешной публикации,
// поэтому при сбое оно уйдёт повторно. Транзакция не держится во время
// публикации: издатель может сам читать хранилище.
func (s *Scheduler) relayOutbox(ctx context.Context) int {
	events, err := s.store.Outbox().FetchPending(ctx, s.batch)
	if err != nil {
		s.logger.Error("Outbox relay failed", zap.Error(err))
		return 0
	}

	published := 0
	for _, ev := range events {
		if err := s.publisher.Publish(ctx, ev.RoutingKey, ev.ID, ev.Payload); err != nil {
			s.logger.Warn("Failed to publish outbox event",
				zap.String("event_id", ev.ID),
				zap.String("routing_key", ev.RoutingKey),
				zap.Error(err),
			)
			// Остальные события попробуем на следующем тике
			break
		}
		if err := s.store.Outbox().MarkPublished(ctx, ev.ID); err != nil {
			s.logger.Error("Failed to mark outbox event published",
				zap.String("event_id", ev.ID),
				zap.Error(err),
			)
			break
		}
		published++
	}

	if published > 0 {
		s.logger.Debug("Outbox events published", zap.Int("count", published))
	}
	return published
}
