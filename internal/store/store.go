// Package store описывает хранилище, которое потребляет ядро бронирования.
// Реализации: repository (PostgreSQL) и repository/memory.
package store

import (
	"context"

	"github.com/Freeeeeet/hall_booking/internal/model"
)

// BookingRequests активные заявки (коллекция booking_requests)
type BookingRequests interface {
	// Create сохраняет заявку, назначает ID и CreatedAt
	Create(ctx context.Context, req *model.BookingRequest) error
	// GetByID возвращает nil, nil если заявки нет
	GetByID(ctx context.Context, id string) (*model.BookingRequest, error)
	// GetByIDForUpdate то же самое, но блокирует запись до конца транзакции
	GetByIDForUpdate(ctx context.Context, id string) (*model.BookingRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.ApprovalStatus) error
	// List возвращает заявки под предикатом в порядке вставки
	List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error)
}

// History архив решённых заявок (коллекция booking_requests_history)
type History interface {
	Upsert(ctx context.Context, req *model.BookingRequest) error
	GetByID(ctx context.Context, id string) (*model.BookingRequest, error)
	List(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error)
}

type Notifications interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientUID string) ([]*model.Notification, error)
	ListByRequest(ctx context.Context, requestID string) ([]*model.Notification, error)
}

// Profiles профили пользователей, только чтение
type Profiles interface {
	GetByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.UserProfile, error)
	FindHeadOfDepartment(ctx context.Context, department string) (*model.UserProfile, error)
	ListHallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error)
}

type Halls interface {
	GetByName(ctx context.Context, name string) (*model.Hall, error)
	List(ctx context.Context) ([]*model.Hall, error)
}

type Outbox interface {
	Add(ctx context.Context, event *model.OutboxEvent) error
	// FetchPending возвращает неопубликованные события в порядке создания
	FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string) error
}

// Tx набор коллекций, привязанных к одной транзакции
type Tx interface {
	Requests() BookingRequests
	History() History
	Notifications() Notifications
	Profiles() Profiles
	Halls() Halls
	Outbox() Outbox
}

// Store хранилище целиком. Методы Tx вне RunInTx работают без транзакции.
type Store interface {
	Tx
	// RunInTx выполняет fn в одной транзакции: либо все записи, либо ни одной
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}
