// Package queue описывает доменные события и их доставку через RabbitMQ.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
)

// Ключи маршрутизации событий
const (
	RKBookingSubmitted = "booking.submitted"
	RKBookingDecided   = "booking.decided"
)

// BookingSubmittedEvent публикуется когда преподаватель подал заявку.
// Содержит достаточно данных, чтобы уведомить менеджера зала без запроса к БД.
type BookingSubmittedEvent struct {
	RequestID   string `json:"request_id"`
	HallName    string `json:"hall_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Department  string `json:"department"`
	FacultyUID  string `json:"faculty_uid"`
	FacultyName string `json:"faculty_name"`
	SubmittedAt string `json:"submitted_at"`
}

// NotificationRef уведомление, созданное решением
type NotificationRef struct {
	ID           string `json:"id"`
	RecipientUID string `json:"recipient_uid"`
	Message      string `json:"message"`
}

// BookingDecidedEvent публикуется после решения менеджера зала
type BookingDecidedEvent struct {
	RequestID     string            `json:"request_id"`
	HallName      string            `json:"hall_name"`
	Date          string            `json:"date"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	Department    string            `json:"department"`
	FacultyUID    string            `json:"faculty_uid"`
	Status        string            `json:"status"`
	DecidedBy     string            `json:"decided_by"`
	DecidedAt     string            `json:"decided_at"`
	Notifications []NotificationRef `json:"notifications"`
}

func NewSubmittedEvent(req *model.BookingRequest) BookingSubmittedEvent {
	return BookingSubmittedEvent{
		RequestID:   req.ID,
		HallName:    req.HallName,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Department:  req.Department,
		FacultyUID:  req.FacultyUID,
		FacultyName: req.FacultyName,
		SubmittedAt: req.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewDecidedEvent(req *model.BookingRequest, decidedBy string, decidedAt time.Time, notes []*model.Notification) BookingDecidedEvent {
	refs := make([]NotificationRef, 0, len(notes))
	for _, n := range notes {
		refs = append(refs, NotificationRef{ID: n.ID, RecipientUID: n.RecipientUID, Message: n.Message})
	}
	return BookingDecidedEvent{
		RequestID:     req.ID,
		HallName:      req.HallName,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Department:    req.Department,
		FacultyUID:    req.FacultyUID,
		Status:        string(req.ApprovalRequest),
		DecidedBy:     decidedBy,
		DecidedAt:     decidedAt.UTC().Format(time.RFC3339),
		Notifications: refs,
	}
}

// Decode разбирает тело сообщения в событие
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
