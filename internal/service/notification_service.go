package service

import (
	"context"
	"sort"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

// NotificationsSubscription живой поток входящих уведомлений
type NotificationsSubscription = feed.Subscription[[]*model.Notification]

type NotificationService struct {
	store  store.Store
	hub    *feed.Hub
	logger *zap.Logger
}

func NewNotificationService(st store.Store, hub *feed.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		hub:    hub,
		logger: logger,
	}
}

// Notify создаёт одно уведомление. ID и время назначает хранилище.
func (s *NotificationService) Notify(ctx context.Context, tx store.Tx, recipientUID, message, requestID string) (*model.Notification, error) {
	n := &model.Notification{
		RecipientUID: recipientUID,
		Message:      message,
		RequestID:    requestID,
	}

	if err := tx.Notifications().Create(ctx, n); err != nil {
		return nil, storeError("create notification", err)
	}

	s.logger.Debug("Notification created",
		zap.String("notification_id", n.ID),
		zap.String("recipient", recipientUID),
		zap.String("request_id", requestID),
	)

	return n, nil
}

// ListForRecipient возвращает уведомления адресата
func (s *NotificationService) ListForRecipient(ctx context.Context, recipientUID string) ([]*model.Notification, error) {
	notes, err := s.store.Notifications().ListByRecipient(ctx, recipientUID)
	if err != nil {
		return nil, storeError("list notifications", err)
	}
	return notes, nil
}

// Inbox возвращает уведомления пользователя. Заведующему кафедрой также
// показываются уведомления, адресованные названию кафедры (когда при решении
// заведующий ещё не был зарегистрирован).
func (s *NotificationService) Inbox(ctx context.Context, profile *model.UserProfile) ([]*model.Notification, error) {
	notes, err := s.ListForRecipient(ctx, profile.UID)
	if err != nil {
		return nil, err
	}

	if profile.Role != model.RoleHOD || profile.Department == "" {
		return notes, nil
	}

	byDept, err := s.ListForRecipient(ctx, profile.Department)
	if err != nil {
		return nil, err
	}

	merged := append(notes, byDept...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged, nil
}

// WatchInbox подписывается на уведомления пользователя
func (s *NotificationService) WatchInbox(ctx context.Context, profile *model.UserProfile) *NotificationsSubscription {
	return feed.Watch(ctx, s.hub, model.CollectionNotifications, func(ctx context.Context) ([]*model.Notification, error) {
		return s.Inbox(ctx, profile)
	})
}
