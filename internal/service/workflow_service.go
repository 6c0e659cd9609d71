package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/queue"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

const (
	facultyMessagePrefix    = "Your booking request has been "
	departmentMessagePrefix = "A booking request for your department has been "
)

// WorkflowService переводит заявку из pending в терминальный статус
type WorkflowService struct {
	store    store.Store
	archive  *ArchiveService
	notifier *NotificationService
	now      func() time.Time
	logger   *zap.Logger
}

func NewWorkflowService(st store.Store, archive *ArchiveService, notifier *NotificationService, logger *zap.Logger) *WorkflowService {
	return &WorkflowService{
		store:    st,
		archive:  archive,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Decide применяет решение заведующего залом к заявке.
// Архивная копия, смена статуса, два уведомления и событие outbox
// пишутся в одной транзакции.
func (s *WorkflowService) Decide(ctx context.Context, actor *model.UserProfile, requestID string, decision model.Decision) (model.ApprovalStatus, error) {
	var target model.ApprovalStatus
	var finalized *model.BookingRequest
	var notes []*model.Notification

	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		req, err := tx.Requests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return storeError("get booking request", err)
		}
		if req == nil {
			return fmt.Errorf("%w: booking request %s", ErrNotFound, requestID)
		}

		// Права проверяются по текущему профилю, а не по переданному снимку
		current, err := s.currentActor(ctx, tx, actor)
		if err != nil {
			return err
		}
		if current == nil || !current.IsHallManagerOf(req.HallName) {
			return forbiddenError("only the hall manager of %q can decide", req.HallName)
		}

		target, err = decision.TargetStatus()
		if err != nil {
			return validationError("%v", err)
		}

		if req.ApprovalRequest.IsTerminal() {
			return fmt.Errorf("%w: booking request %s is already %s", ErrConflict, requestID, req.ApprovalRequest)
		}

		finalized = req.Clone()
		finalized.ApprovalRequest = target

		if err := s.archive.Archive(ctx, tx, requestID, finalized); err != nil {
			return err
		}

		if err := tx.Requests().UpdateStatus(ctx, requestID, target); err != nil {
			return storeError("update booking request status", err)
		}

		notes, err = s.fanOut(ctx, tx, finalized, decision)
		if err != nil {
			return err
		}

		return enqueue(ctx, tx, queue.RKBookingDecided, queue.NewDecidedEvent(finalized, actor.UID, s.now(), notes))
	})
	if err != nil {
		return "", classify("decide booking request", err)
	}

	s.logger.Info("Booking request decided",
		zap.String("request_id", requestID),
		zap.String("status", string(target)),
		zap.String("hall", finalized.HallName),
		zap.String("decided_by", actor.UID),
	)

	return target, nil
}

// currentActor перечитывает профиль действующего пользователя в транзакции
func (s *WorkflowService) currentActor(ctx context.Context, tx store.Tx, actor *model.UserProfile) (*model.UserProfile, error) {
	if actor == nil || actor.UID == "" {
		return nil, nil
	}
	profile, err := tx.Profiles().GetByUID(ctx, actor.UID)
	if err != nil {
		return nil, storeError("get actor profile", err)
	}
	return profile, nil
}

// fanOut создаёт ровно два уведомления: преподавателю и заведующему кафедрой
func (s *WorkflowService) fanOut(ctx context.Context, tx store.Tx, req *model.BookingRequest, decision model.Decision) ([]*model.Notification, error) {
	verb := decision.Verb()

	deptRecipient, err := s.departmentRecipient(ctx, tx, req.Department)
	if err != nil {
		return nil, err
	}

	toFaculty, err := s.notifier.Notify(ctx, tx, req.FacultyUID, facultyMessagePrefix+verb, req.ID)
	if err != nil {
		return nil, err
	}

	toDept, err := s.notifier.Notify(ctx, tx, deptRecipient, departmentMessagePrefix+verb, req.ID)
	if err != nil {
		return nil, err
	}

	return []*model.Notification{toFaculty, toDept}, nil
}

// departmentRecipient возвращает uid заведующего кафедрой или название кафедры,
// если заведующий не зарегистрирован
func (s *WorkflowService) departmentRecipient(ctx context.Context, tx store.Tx, department string) (string, error) {
	hod, err := tx.Profiles().FindHeadOfDepartment(ctx, department)
	if err != nil {
		return "", storeError("find head of department", err)
	}
	if hod == nil {
		s.logger.Warn("No head of department registered, addressing department label",
			zap.String("department", department),
		)
		return department, nil
	}
	return hod.UID, nil
}
