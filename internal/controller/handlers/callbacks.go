package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery распределяет нажатия inline кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == Noop:
		answerCallback(ctx, b, callback.ID, "", false)
	case strings.HasPrefix(data, DecidePrefix):
		h.handleDecide(ctx, b, callback)
	case strings.HasPrefix(data, CalendarDayPrefix):
		h.handleCalendarDay(ctx, b, callback)
	case strings.HasPrefix(data, CalendarPrefix):
		h.handleCalendarMonth(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		answerCallback(ctx, b, callback.ID, "❌ Unknown action", true)
	}
}

// handleDecide применяет решение менеджера к заявке
func (h *Handlers) handleDecide(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	decision, requestID, err := ParseDecideCallback(callback.Data)
	if err != nil {
		answerCallback(ctx, b, callback.ID, "❌ Invalid format", true)
		return
	}

	// В личном чате id чата совпадает с id пользователя
	profile, err := h.profileService.GetByTelegramChatID(ctx, callback.From.ID)
	if err != nil || profile == nil {
		answerCallback(ctx, b, callback.ID, notLinkedText, true)
		return
	}

	status, err := h.workflowService.Decide(ctx, profile, requestID, decision)
	if err != nil {
		h.logger.Warn("Decision failed",
			zap.String("request_id", requestID),
			zap.String("uid", profile.UID),
			zap.Error(err))
		answerCallback(ctx, b, callback.ID, ErrorText(err), true)
		return
	}

	display := GetStatusDisplay(status)
	answerCallback(ctx, b, callback.ID, display.Emoji+" "+display.Text, false)

	// Перерисовываем очередь, чтобы решённая заявка исчезла
	msg := messageFromCallback(callback)
	if msg == nil {
		return
	}
	reqs, err := h.bookingService.Queue(ctx, profile)
	if err != nil {
		h.logger.Error("Failed to refresh pending requests", zap.Error(err))
		return
	}
	text, keyboard := BuildPendingScreen(profile.Hall, reqs)
	h.editMessage(ctx, b, msg, text, keyboard)
}

func (h *Handlers) handleCalendarMonth(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	hall, year, month, err := ParseCalendarCallback(callback.Data)
	if err != nil {
		answerCallback(ctx, b, callback.ID, "❌ Invalid format", true)
		return
	}

	m, err := h.calendarService.Month(ctx, hall, year, month)
	if err != nil {
		answerCallback(ctx, b, callback.ID, ErrorText(err), true)
		return
	}

	answerCallback(ctx, b, callback.ID, "", false)
	text, keyboard := BuildCalendarScreen(m)
	if msg := messageFromCallback(callback); msg != nil {
		h.editMessage(ctx, b, msg, text, keyboard)
	}
}

func (h *Handlers) handleCalendarDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	hall, date, err := ParseCalendarDayCallback(callback.Data)
	if err != nil {
		answerCallback(ctx, b, callback.ID, "❌ Invalid format", true)
		return
	}

	m, err := h.calendarService.Month(ctx, hall, date.Year(), date.Month())
	if err != nil {
		answerCallback(ctx, b, callback.ID, ErrorText(err), true)
		return
	}

	answerCallback(ctx, b, callback.ID, "", false)
	if msg := messageFromCallback(callback); msg != nil {
		h.sendMessage(ctx, b, msg.Chat.ID, BuildDayScreen(hall, date.Format("2006-01-02"), m.EventsOn(date.Day())), nil)
	}
}

func (h *Handlers) editMessage(ctx context.Context, b *bot.Bot, msg *models.Message, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Warn("Failed to edit message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}
