package model

import "time"

// Notification запись об изменении заявки для конкретного получателя.
// Состояния "прочитано" нет, непрочитанные считает клиент.
type Notification struct {
	ID           string    `json:"id"`
	RecipientUID string    `json:"recipientUid"`
	Message      string    `json:"message"`
	RequestID    string    `json:"requestId"`
	Timestamp    time.Time `json:"timestamp"`
}
