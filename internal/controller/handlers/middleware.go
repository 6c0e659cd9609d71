package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const notLinkedText = "❌ This chat is not linked to a profile. Ask the administrator to link your Telegram account."

// requireProfile находит профиль по чату сообщения
// Возвращает профиль и true если OK, nil и false если нет
func (h *Handlers) requireProfile(ctx context.Context, b *bot.Bot, update *models.Update) (*model.UserProfile, bool) {
	if update.Message == nil {
		return nil, false
	}

	chatID := update.Message.Chat.ID
	profile, err := h.profileService.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return nil, false
	}

	if profile == nil {
		h.sendError(ctx, b, chatID, notLinkedText)
		return nil, false
	}

	return profile, true
}

// requireHallManager проверяет что пользователь управляет залом
func (h *Handlers) requireHallManager(ctx context.Context, b *bot.Bot, update *models.Update) (*model.UserProfile, bool) {
	profile, ok := h.requireProfile(ctx, b, update)
	if !ok {
		return nil, false
	}

	if profile.Role != model.RoleHallManager || profile.Hall == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ This command is available to hall managers only.")
		return nil, false
	}

	return profile, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// ErrorText переводит ошибку ядра в сообщение пользователю
func ErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "❌ Booking request not found."
	case errors.Is(err, service.ErrForbidden):
		return "⛔ You are not allowed to do this."
	case errors.Is(err, service.ErrConflict):
		return "⚠️ This request has already been decided."
	case errors.Is(err, service.ErrValidation):
		return "❌ Invalid input."
	default:
		return "❌ Something went wrong. Please try again later."
	}
}
