package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/base"
	"github.com/google/uuid"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(db base.DBTX) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(db)}
}

// Create создаёт уведомление
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_uid, message, request_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	id := uuid.NewString()
	err := r.QueryRow(ctx, query, id, n.RecipientUID, n.Message, n.RequestID).Scan(&n.Timestamp)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	n.ID = id
	return nil
}

// ListByRecipient получает уведомления адресата
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientUID string) ([]*model.Notification, error) {
	return r.list(ctx, "recipient_uid = $1", recipientUID)
}

// ListByRequest получает уведомления по заявке
func (r *NotificationRepository) ListByRequest(ctx context.Context, requestID string) ([]*model.Notification, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return []*model.Notification{}, nil
	}
	return r.list(ctx, "request_id = $1", requestID)
}

func (r *NotificationRepository) list(ctx context.Context, cond string, arg any) ([]*model.Notification, error) {
	query := `
		SELECT id::text, recipient_uid, message, request_id::text, created_at
		FROM notifications
		WHERE ` + cond + `
		ORDER BY seq
	`

	rows, err := r.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notes := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientUID, &n.Message, &n.RequestID, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notes = append(notes, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notes, nil
}
