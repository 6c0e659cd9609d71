package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ChangesChannel канал NOTIFY, в который триггеры пишут имя изменённой таблицы
const ChangesChannel = "collection_changes"

const (
	listenMinBackoff = time.Second
	listenMaxBackoff = 30 * time.Second
)

// ChangePublisher получает имена изменённых коллекций
type ChangePublisher interface {
	Publish(collection string)
}

// ChangeListener слушает LISTEN/NOTIFY на отдельном соединении пула
// и передаёт изменения в publisher
type ChangeListener struct {
	pool      *pgxpool.Pool
	publisher ChangePublisher
	logger    *zap.Logger
}

func NewChangeListener(pool *pgxpool.Pool, publisher ChangePublisher, logger *zap.Logger) *ChangeListener {
	return &ChangeListener{
		pool:      pool,
		publisher: publisher,
		logger:    logger,
	}
}

// Run слушает до отмены контекста, переподключаясь при обрыве
func (l *ChangeListener) Run(ctx context.Context) {
	backoff := listenMinBackoff

	for {
		err := l.listen(ctx, func() { backoff = listenMinBackoff })
		if ctx.Err() != nil {
			l.logger.Info("Change listener stopped")
			return
		}

		l.logger.Warn("Change listener disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			l.logger.Info("Change listener stopped")
			return
		}

		backoff *= 2
		if backoff > listenMaxBackoff {
			backoff = listenMaxBackoff
		}
	}
}

func (l *ChangeListener) listen(ctx context.Context, connected func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangesChannel); err != nil {
		return fmt.Errorf("listen %s: %w", ChangesChannel, err)
	}

	connected()
	l.logger.Info("Listening for collection changes", zap.String("channel", ChangesChannel))

	// Пока соединения не было, изменения могли потеряться: пусть подписчики перечитают всё
	l.publishAll()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			// Соединение в неизвестном состоянии, в пул его не возвращаем
			conn.Hijack().Close(context.Background())
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.publisher.Publish(n.Payload)
	}
}

func (l *ChangeListener) publishAll() {
	for _, c := range []string{
		model.CollectionBookingRequests,
		model.CollectionHistory,
		model.CollectionNotifications,
		model.CollectionUsers,
	} {
		l.publisher.Publish(c)
	}
}
