package model

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"                 // Ожидает решения менеджера зала
	ApprovalStatusApproved ApprovalStatus = "approved_by_hallmanager" // Одобрено менеджером зала
	ApprovalStatusCanceled ApprovalStatus = "cancelled"               // Отклонено менеджером зала
)

// IsTerminal проверяет, что из статуса больше нет переходов
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusCanceled
}

// BookingRequest заявка на использование семинарского зала.
// Та же структура хранится в архиве (booking_requests_history) с финальным статусом.
type BookingRequest struct {
	ID              string         `json:"id"`
	HallName        string         `json:"hallName"`
	Date            string         `json:"date"`      // YYYY-MM-DD
	StartTime       string         `json:"startTime"` // HH:MM
	EndTime         string         `json:"endTime"`   // HH:MM
	Department      string         `json:"department"`
	FacultyName     string         `json:"facultyName"`
	FacultyUID      string         `json:"facultyUid"`
	Reason          string         `json:"reason"`
	Title           string         `json:"title,omitempty"`
	Description     string         `json:"description,omitempty"`
	ApprovalRequest ApprovalStatus `json:"approvalRequest"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Clone возвращает независимую копию заявки
func (r *BookingRequest) Clone() *BookingRequest {
	c := *r
	return &c
}

// TimeLayout формат времени начала и конца, всегда две цифры часа
const TimeLayout = "15:04"

// BookingDraft данные, которые вводит преподаватель при подаче заявки.
// Кафедра и имя берутся из профиля и здесь не передаются.
type BookingDraft struct {
	HallName    string `json:"hallName" validate:"required,max=100"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,len=5,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"required,len=5,datetime=15:04"`
	Reason      string `json:"reason" validate:"required,max=2000"`
	Title       string `json:"title,omitempty" validate:"max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}
