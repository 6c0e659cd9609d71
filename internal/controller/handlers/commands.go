package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	profile, err := h.profileService.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to get profile", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	if profile == nil {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"👋 Welcome to the Seminar Hall Booking bot.\n\n%s\nYour chat id: %d",
			notLinkedText, chatID,
		), nil)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("👋 Hello, %s!\n\n%s", profile.Name, helpFor(profile)), nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, ok := h.requireProfile(ctx, b, update)
	if !ok {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpFor(profile), nil)
}

func helpFor(profile *model.UserProfile) string {
	text := "📚 Commands:\n" +
		"/notifications - Latest notifications\n" +
		"/history - Decided requests\n" +
		"/calendar [hall] - Hall calendar\n"
	if profile.Role == model.RoleHallManager {
		text += "/pending - Requests waiting for your decision\n"
	}
	return text
}

// HandlePending обрабатывает команду /pending
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, ok := h.requireHallManager(ctx, b, update)
	if !ok {
		return
	}

	reqs, err := h.bookingService.Queue(ctx, profile)
	if err != nil {
		h.logger.Error("Failed to get pending requests", zap.String("uid", profile.UID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorText(err))
		return
	}

	text, keyboard := BuildPendingScreen(profile.Hall, reqs)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, keyboard)
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, ok := h.requireProfile(ctx, b, update)
	if !ok {
		return
	}

	reqs, err := h.archiveService.History(ctx, profile)
	if err != nil {
		h.logger.Error("Failed to get history", zap.String("uid", profile.UID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorText(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, BuildHistoryScreen(reqs), nil)
}

// HandleNotifications обрабатывает команду /notifications
func (h *Handlers) HandleNotifications(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, ok := h.requireProfile(ctx, b, update)
	if !ok {
		return
	}

	notes, err := h.notificationService.Inbox(ctx, profile)
	if err != nil {
		h.logger.Error("Failed to get notifications", zap.String("uid", profile.UID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorText(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, BuildNotificationsScreen(notes), nil)
}

// HandleCalendar обрабатывает команду /calendar [hall].
// Без аргумента менеджер видит свой зал, остальные получают выбор зала.
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	profile, ok := h.requireProfile(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	hall := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/calendar"))
	if hall == "" {
		hall = profile.Hall
	}

	now := time.Now()
	if hall == "" {
		h.sendHallPicker(ctx, b, chatID, now)
		return
	}

	month, err := h.calendarService.Month(ctx, hall, now.Year(), now.Month())
	if err != nil {
		h.logger.Warn("Failed to build calendar", zap.String("hall", hall), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	text, keyboard := BuildCalendarScreen(month)
	h.sendMessage(ctx, b, chatID, text, keyboard)
}

func (h *Handlers) sendHallPicker(ctx context.Context, b *bot.Bot, chatID int64, now time.Time) {
	halls, err := h.bookingService.Halls(ctx)
	if err != nil {
		h.logger.Error("Failed to list halls", zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorText(err))
		return
	}

	var buttons [][]models.InlineKeyboardButton
	for _, hall := range halls {
		buttons = append(buttons, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("🏛 %s (%s)", hall.Name, hall.Location),
			CallbackData: CalendarCallback(hall.Name, now.Year(), now.Month()),
		}})
	}

	h.sendMessage(ctx, b, chatID, "🏛 Choose a hall:", &models.InlineKeyboardMarkup{InlineKeyboard: buttons})
}
