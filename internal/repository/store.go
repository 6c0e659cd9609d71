// Package repository реализация хранилища на PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Migrations SQL миграции goose
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir каталог миграций внутри Migrations
const MigrationsDir = "migrations"

// collections репозитории поверх одного соединения (пула или транзакции)
type collections struct {
	requests      *BookingRequestRepository
	history       *HistoryRepository
	notifications *NotificationRepository
	users         *UserRepository
	halls         *HallRepository
	outbox        *OutboxRepository
}

func newCollections(db base.DBTX) collections {
	return collections{
		requests:      NewBookingRequestRepository(db),
		history:       NewHistoryRepository(db),
		notifications: NewNotificationRepository(db),
		users:         NewUserRepository(db),
		halls:         NewHallRepository(db),
		outbox:        NewOutboxRepository(db),
	}
}

func (c collections) Requests() store.BookingRequests { return c.requests }
func (c collections) History() store.History { return c.history }
func (c collections) Notifications() store.Notifications { return c.notifications }
func (c collections) Profiles() store.Profiles { return c.users }
func (c collections) Halls() store.Halls { return c.halls }
func (c collections) Outbox() store.Outbox { return c.outbox }

// Store хранилище на пуле pgx
type Store struct {
	collections
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		collections: newCollections(pool),
		pool:        pool,
		logger:      logger,
	}
}

// RunInTx выполняет fn в транзакции READ COMMITTED.
// Ошибка fn или паника откатывают транзакцию.
func (s *Store) RunInTx(ctx context.Context, fn func(tx store.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Warn("Failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(newCollections(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
