package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/google/uuid"
)

// OutboxRepository события, ожидающие публикации в брокер
type OutboxRepository struct {
	*base.Repository
}

func NewOutboxRepository(db base.DBTX) *OutboxRepository {
	return &OutboxRepository{Repository: base.NewRepository(db)}
}

// Add записывает событие
func (r *OutboxRepository) Add(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, routing_key, payload)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	id := uuid.NewString()
	err := r.QueryRow(ctx, query, id, event.RoutingKey, event.Payload).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("add outbox event: %w", err)
	}

	event.ID = id
	return nil
}

// FetchPending получает неопубликованные события. Строки, захваченные
// другим ретранслятором, пропускаются.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id::text, routing_key, payload, created_at, published_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending outbox events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.OutboxEvent, 0)
	for rows.Next() {
		var e model.OutboxEvent
		if err := rows.Scan(&e.ID, &e.RoutingKey, &e.Payload, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}

	return events, nil
}

// MarkPublished помечает событие опубликованным
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `UPDATE outbox_events SET published_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event published: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark outbox event published: %s not found", id)
	}
	return nil
}
