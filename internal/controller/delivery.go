package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/controller/handlers"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/queue"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender часть API бота, нужная для доставки
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// RecipientDirectory ищет получателей по uid и залу
type RecipientDirectory interface {
	GetByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	ListHallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error)
}

// TelegramDeliverer доставляет доменные события в Telegram.
// Получатели без привязанного чата пропускаются.
type TelegramDeliverer struct {
	sender    MessageSender
	directory RecipientDirectory
	logger    *zap.Logger
}

var _ queue.Deliverer = (*TelegramDeliverer)(nil)

func NewTelegramDeliverer(sender MessageSender, directory RecipientDirectory, logger *zap.Logger) *TelegramDeliverer {
	return &TelegramDeliverer{
		sender:    sender,
		directory: directory,
		logger:    logger,
	}
}

// DeliverSubmitted сообщает менеджерам зала о новой заявке с кнопками решения
func (d *TelegramDeliverer) DeliverSubmitted(ctx context.Context, ev queue.BookingSubmittedEvent) error {
	managers, err := d.directory.ListHallManagers(ctx, ev.HallName)
	if err != nil {
		return fmt.Errorf("list hall managers: %w", err)
	}

	text := fmt.Sprintf(
		"🆕 New booking request\n🏛 %s\n📅 %s, %s - %s\n👤 %s (%s)",
		ev.HallName, ev.Date, ev.StartTime, ev.EndTime, ev.FacultyName, ev.Department,
	)
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Approve", CallbackData: handlers.DecideCallback(model.DecisionApprove, ev.RequestID)},
			{Text: "❌ Reject", CallbackData: handlers.DecideCallback(model.DecisionReject, ev.RequestID)},
		}},
	}

	for _, m := range managers {
		if m.TelegramChatID == nil {
			continue
		}
		if err := d.send(ctx, *m.TelegramChatID, text, keyboard); err != nil {
			return err
		}
	}
	return nil
}

// DeliverDecided отправляет уведомления, созданные решением
func (d *TelegramDeliverer) DeliverDecided(ctx context.Context, ev queue.BookingDecidedEvent) error {
	for _, n := range ev.Notifications {
		profile, err := d.directory.GetByUID(ctx, n.RecipientUID)
		if err != nil {
			return fmt.Errorf("get recipient %s: %w", n.RecipientUID, err)
		}
		if profile == nil || profile.TelegramChatID == nil {
			d.logger.Debug("Recipient has no linked chat",
				zap.String("recipient", n.RecipientUID),
				zap.String("request_id", ev.RequestID))
			continue
		}

		text := fmt.Sprintf("🔔 %s\n🏛 %s\n📅 %s, %s - %s", n.Message, ev.HallName, ev.Date, ev.StartTime, ev.EndTime)
		if err := d.send(ctx, *profile.TelegramChatID, text, nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *TelegramDeliverer) send(ctx context.Context, chatID int64, text string, markup *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := d.sender.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send telegram message to %d: %w", chatID, err)
	}
	return nil
}
