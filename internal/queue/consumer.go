package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Deliverer доставляет события получателям (Telegram и т.п.).
// Доставка at-least-once: одно событие может прийти повторно.
type Deliverer interface {
	DeliverSubmitted(ctx context.Context, ev BookingSubmittedEvent) error
	DeliverDecided(ctx context.Context, ev BookingDecidedEvent) error
}

// ConsumerConfig настройки очереди доставки
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

// Consumer читает события из очереди и передаёт их Handler
type Consumer struct {
	cfg     ConsumerConfig
	handler *Handler
	logger  *zap.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg ConsumerConfig, handler *Handler, logger *zap.Logger) *Consumer {
	return &Consumer{cfg: cfg, handler: handler, logger: logger}
}

// Connect объявляет exchange и очередь и привязывает ключи событий
func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	fail := func(format string, err error) error {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf(format, err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fail("declare queue: %w", err)
	}
	for _, rk := range []string{RKBookingSubmitted, RKBookingDecided} {
		if err := ch.QueueBind(q.Name, rk, c.cfg.Exchange, false, nil); err != nil {
			return fail("bind queue: %w", err)
		}
	}

	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 8
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail("set qos: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

// Run обрабатывает сообщения до отмены контекста
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handler.Handle(ctx, d.RoutingKey, d.Body); err != nil {
				c.logger.Warn("Event delivery failed, requeue",
					zap.String("routing_key", d.RoutingKey),
					zap.String("message_id", d.MessageId),
					zap.Error(err),
				)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Handler разбирает тело события и вызывает Deliverer
type Handler struct {
	deliverer Deliverer
	logger    *zap.Logger
}

func NewHandler(deliverer Deliverer, logger *zap.Logger) *Handler {
	return &Handler{deliverer: deliverer, logger: logger}
}

// Handle обрабатывает одно сообщение. Нечитаемые и неизвестные сообщения
// отбрасываются без ошибки, иначе они бы возвращались в очередь бесконечно.
func (h *Handler) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RKBookingSubmitted:
		ev, err := Decode[BookingSubmittedEvent](body)
		if err != nil {
			h.logger.Error("Drop malformed event", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		return h.deliverer.DeliverSubmitted(ctx, ev)

	case RKBookingDecided:
		ev, err := Decode[BookingDecidedEvent](body)
		if err != nil {
			h.logger.Error("Drop malformed event", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		return h.deliverer.DeliverDecided(ctx, ev)

	default:
		h.logger.Debug("Skip unknown event", zap.String("routing_key", routingKey))
		return nil
	}
}
