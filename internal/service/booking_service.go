package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/queue"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RequestsSubscription живой поток снимков списка заявок
type RequestsSubscription = feed.Subscription[[]*model.BookingRequest]

// BookingService приём заявок и чтение активной коллекции
type BookingService struct {
	store    store.Store
	hub      *feed.Hub
	validate *validator.Validate
	logger   *zap.Logger
}

func NewBookingService(st store.Store, hub *feed.Hub, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:    st,
		hub:      hub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Submit создаёт заявку от имени пользователя submitterUID.
// Кафедра и имя преподавателя берутся только из профиля.
func (s *BookingService) Submit(ctx context.Context, submitterUID string, draft model.BookingDraft) (*model.BookingRequest, error) {
	profile, err := s.store.Profiles().GetByUID(ctx, submitterUID)
	if err != nil {
		return nil, storeError("get submitter profile", err)
	}

	if profile == nil {
		return nil, validationError("profile for %q not found", submitterUID)
	}

	if !profile.CanSubmit() {
		return nil, forbiddenError("role %q cannot submit booking requests", profile.Role)
	}

	if profile.Department == "" || profile.Name == "" {
		return nil, validationError("missing department or faculty name")
	}

	if err := s.validateDraft(ctx, draft); err != nil {
		return nil, err
	}

	req := &model.BookingRequest{
		HallName:        strings.TrimSpace(draft.HallName),
		Date:            draft.Date,
		StartTime:       draft.StartTime,
		EndTime:         draft.EndTime,
		Department:      profile.Department,
		FacultyName:     profile.Name,
		FacultyUID:      profile.UID,
		Reason:          strings.TrimSpace(draft.Reason),
		Title:           strings.TrimSpace(draft.Title),
		Description:     strings.TrimSpace(draft.Description),
		ApprovalRequest: model.ApprovalStatusPending,
	}

	err = s.store.RunInTx(ctx, func(tx store.Tx) error {
		if err := tx.Requests().Create(ctx, req); err != nil {
			return storeError("create booking request", err)
		}
		return enqueue(ctx, tx, queue.RKBookingSubmitted, queue.NewSubmittedEvent(req))
	})
	if err != nil {
		return nil, classify("submit booking request", err)
	}

	s.logger.Info("Booking request submitted",
		zap.String("request_id", req.ID),
		zap.String("hall", req.HallName),
		zap.String("date", req.Date),
		zap.String("faculty_uid", req.FacultyUID),
	)

	return req, nil
}

// validateDraft проверяет формат полей, порядок времени и существование зала
func (s *BookingService) validateDraft(ctx context.Context, draft model.BookingDraft) error {
	if err := s.validate.Struct(draft); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field()+" "+fe.Tag())
			}
			return validationError("invalid fields: %s", strings.Join(fields, ", "))
		}
		return validationError("%v", err)
	}

	start, err := time.Parse(model.TimeLayout, draft.StartTime)
	if err != nil {
		return validationError("invalid start time %q", draft.StartTime)
	}
	end, err := time.Parse(model.TimeLayout, draft.EndTime)
	if err != nil {
		return validationError("invalid end time %q", draft.EndTime)
	}
	if !end.After(start) {
		return validationError("end time %s must be after start time %s", draft.EndTime, draft.StartTime)
	}

	hall, err := s.store.Halls().GetByName(ctx, strings.TrimSpace(draft.HallName))
	if err != nil {
		return storeError("get hall", err)
	}
	if hall == nil {
		return validationError("unknown hall %q", draft.HallName)
	}

	return nil
}

// GetByID получает активную заявку по ID
func (s *BookingService) GetByID(ctx context.Context, id string) (*model.BookingRequest, error) {
	req, err := s.store.Requests().GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get booking request", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: booking request %s", ErrNotFound, id)
	}
	return req, nil
}

// QueryPending возвращает заявки под предикатом роли
func (s *BookingService) QueryPending(ctx context.Context, scope model.Scope) ([]*model.BookingRequest, error) {
	reqs, err := s.store.Requests().List(ctx, scope)
	if err != nil {
		return nil, storeError("list booking requests", err)
	}
	return reqs, nil
}

// QueryByOwner возвращает все заявки преподавателя
func (s *BookingService) QueryByOwner(ctx context.Context, facultyUID string) ([]*model.BookingRequest, error) {
	return s.QueryPending(ctx, model.Scope{FacultyUID: facultyUID})
}

// WatchPending подписывается на заявки под предикатом
func (s *BookingService) WatchPending(ctx context.Context, scope model.Scope) *RequestsSubscription {
	return feed.Watch(ctx, s.hub, model.CollectionBookingRequests, func(ctx context.Context) ([]*model.BookingRequest, error) {
		return s.QueryPending(ctx, scope)
	})
}

// WatchByOwner подписывается на заявки преподавателя
func (s *BookingService) WatchByOwner(ctx context.Context, facultyUID string) *RequestsSubscription {
	return s.WatchPending(ctx, model.Scope{FacultyUID: facultyUID})
}

// Queue возвращает очередь заявок, которую видит пользователь
func (s *BookingService) Queue(ctx context.Context, actor *model.UserProfile) ([]*model.BookingRequest, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	return s.QueryPending(ctx, scope)
}

// WatchQueue подписывается на очередь заявок пользователя
func (s *BookingService) WatchQueue(ctx context.Context, actor *model.UserProfile) (*RequestsSubscription, error) {
	scope, err := ScopeFor(actor)
	if err != nil {
		return nil, err
	}
	return s.WatchPending(ctx, scope), nil
}

// Halls возвращает каталог залов
func (s *BookingService) Halls(ctx context.Context) ([]*model.Hall, error) {
	halls, err := s.store.Halls().List(ctx)
	if err != nil {
		return nil, storeError("list halls", err)
	}
	return halls, nil
}
