package service

import (
	"context"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

// ArchiveService архив решённых заявок, источник истины для календаря
type ArchiveService struct {
	store  store.Store
	hub    *feed.Hub
	logger *zap.Logger
}

func NewArchiveService(st store.Store, hub *feed.Hub, logger *zap.Logger) *ArchiveService {
	return &ArchiveService{
		store:  st,
		hub:    hub,
		logger: logger,
	}
}

// Archive сохраняет финальную копию заявки под тем же id.
// Повторный вызов перезаписывает запись.
func (s *ArchiveService) Archive(ctx context.Context, tx store.Tx, requestID string, finalized *model.BookingRequest) error {
	if !finalized.ApprovalRequest.IsTerminal() {
		return validationError("cannot archive request %s with status %q", requestID, finalized.ApprovalRequest)
	}

	record := finalized.Clone()
	record.ID = requestID

	if err := tx.History().Upsert(ctx, record); err != nil {
		return storeError("archive booking request", err)
	}

	s.logger.Debug("Booking request archived",
		zap.String("request_id", requestID),
		zap.String("status", string(record.ApprovalRequest)),
	)

	return nil
}

// GetByID получает запись архива по ID
func (s *ArchiveService) GetByID(ctx context.Context, requestID string) (*model.BookingRequest, error) {
	rec, err := s.store.History().GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError("get archived request", err)
	}
	return rec, nil
}

// Query возвращает записи архива под предикатом
func (s *ArchiveService) Query(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	recs, err := s.store.History().List(ctx, scope)
	if err != nil {
		return nil, storeError("list archived requests", err)
	}
	return recs, nil
}

// History возвращает историю решений, доступную пользователю
func (s *ArchiveService) History(ctx context.Context, actor *model.UserProfile) ([]*model.BookingRequest, error) {
	scope, err := HistoryScopeFor(actor)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, scope)
}

// WatchHistory подписывается на историю решений пользователя
func (s *ArchiveService) WatchHistory(ctx context.Context, actor *model.UserProfile) (*RequestsSubscription, error) {
	scope, err := HistoryScopeFor(actor)
	if err != nil {
		return nil, err
	}
	return feed.Watch(ctx, s.hub, model.CollectionHistory, func(ctx context.Context) ([]*model.BookingRequest, error) {
		return s.Query(ctx, scope)
	}), nil
}

// ApprovedForHall возвращает одобренные бронирования зала
func (s *ArchiveService) ApprovedForHall(ctx context.Context, hall string) ([]*model.BookingRequest, error) {
	return s.Query(ctx, model.Scope{HallName: hall}.WithStatuses(model.ApprovalStatusApproved))
}
