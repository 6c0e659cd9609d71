package model

import "time"

// Названия коллекций, они же имена таблиц и каналы изменений
const (
	CollectionBookingRequests = "booking_requests"
	CollectionHistory         = "booking_requests_history"
	CollectionNotifications   = "notifications"
	CollectionUsers           = "users"
	CollectionOutbox          = "outbox_events"
)

// OutboxEvent доменное событие, записанное в той же транзакции, что и изменение.
// Ретранслятор публикует его в брокер и помечает отправленным.
type OutboxEvent struct {
	ID          string     `json:"id"`
	RoutingKey  string     `json:"routing_key"`
	Payload     []byte     `json:"payload"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
}
