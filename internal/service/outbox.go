package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
)

// enqueue записывает событие в outbox в рамках текущей транзакции
func enqueue(ctx context.Context, tx store.Tx, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	event := &model.OutboxEvent{
		RoutingKey: routingKey,
		Payload:    body,
	}
	if err := tx.Outbox().Add(ctx, event); err != nil {
		return storeError("add outbox event", err)
	}
	return nil
}
