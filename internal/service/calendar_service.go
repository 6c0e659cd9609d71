package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/calendar"
	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

// MonthSubscription живой поток сетки месяца
type MonthSubscription = feed.Subscription[*calendar.Month]

// CalendarService строит календарь зала из архива одобренных заявок
type CalendarService struct {
	store   store.Store
	archive *ArchiveService
	hub     *feed.Hub
	now     func() time.Time
	logger  *zap.Logger
}

func NewCalendarService(st store.Store, archive *ArchiveService, hub *feed.Hub, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		store:   st,
		archive: archive,
		hub:     hub,
		now:     time.Now,
		logger:  logger,
	}
}

// Month возвращает сетку месяца для зала
func (s *CalendarService) Month(ctx context.Context, hall string, year int, month time.Month) (*calendar.Month, error) {
	if err := s.validate(ctx, hall, year, month); err != nil {
		return nil, err
	}
	return s.build(ctx, hall, year, month)
}

// WatchMonth подписывается на сетку месяца. Пересчёт идёт при каждом изменении архива.
func (s *CalendarService) WatchMonth(ctx context.Context, hall string, year int, month time.Month) (*MonthSubscription, error) {
	if err := s.validate(ctx, hall, year, month); err != nil {
		return nil, err
	}
	return feed.Watch(ctx, s.hub, model.CollectionHistory, func(ctx context.Context) (*calendar.Month, error) {
		return s.build(ctx, hall, year, month)
	}), nil
}

func (s *CalendarService) build(ctx context.Context, hall string, year int, month time.Month) (*calendar.Month, error) {
	events, err := s.archive.ApprovedForHall(ctx, hall)
	if err != nil {
		return nil, err
	}
	return calendar.Build(year, month, hall, events, s.now()), nil
}

func (s *CalendarService) validate(ctx context.Context, hall string, year int, month time.Month) error {
	if month < time.January || month > time.December {
		return validationError("month %d out of range", int(month))
	}
	if year < 1 || year > 9999 {
		return validationError("year %d out of range", year)
	}

	h, err := s.store.Halls().GetByName(ctx, hall)
	if err != nil {
		return storeError("get hall", err)
	}
	if h == nil {
		return validationError("unknown hall %q", hall)
	}
	return nil
}
