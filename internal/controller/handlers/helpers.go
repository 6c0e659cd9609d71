package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/calendar"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/go-telegram/bot/models"
)

// StatusDisplay содержит emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для статуса заявки
func GetStatusDisplay(status model.ApprovalStatus) StatusDisplay {
	switch status {
	case model.ApprovalStatusPending:
		return StatusDisplay{Emoji: "⏳", Text: "Pending"}
	case model.ApprovalStatusApproved:
		return StatusDisplay{Emoji: "✅", Text: "Approved"}
	case model.ApprovalStatusCanceled:
		return StatusDisplay{Emoji: "❌", Text: "Rejected"}
	default:
		return StatusDisplay{Emoji: "❔", Text: string(status)}
	}
}

// FormatRequest форматирует заявку для отображения
func FormatRequest(req *model.BookingRequest) string {
	display := GetStatusDisplay(req.ApprovalRequest)

	text := fmt.Sprintf(
		"%s %s\n"+
			"🏛 %s\n"+
			"📅 %s, %s - %s\n"+
			"👤 %s (%s)\n"+
			"📝 %s",
		display.Emoji,
		display.Text,
		req.HallName,
		req.Date, req.StartTime, req.EndTime,
		req.FacultyName, req.Department,
		req.Reason,
	)
	if req.Title != "" {
		text += "\n🏷 " + req.Title
	}
	return text
}

// DecideCallback собирает callback data для кнопки решения
func DecideCallback(decision model.Decision, requestID string) string {
	return DecidePrefix + string(decision) + ":" + requestID
}

// ParseDecideCallback разбирает decide:<decision>:<id>
func ParseDecideCallback(data string) (model.Decision, string, error) {
	rest, ok := strings.CutPrefix(data, DecidePrefix)
	if !ok {
		return "", "", fmt.Errorf("invalid callback data format")
	}
	decision, id, ok := strings.Cut(rest, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("invalid callback data format")
	}
	d := model.Decision(decision)
	if _, err := d.TargetStatus(); err != nil {
		return "", "", err
	}
	return d, id, nil
}

// CalendarCallback собирает callback data для перехода к месяцу
func CalendarCallback(hall string, year int, month time.Month) string {
	return fmt.Sprintf("%s%s:%d:%d", CalendarPrefix, hall, year, int(month))
}

// ParseCalendarCallback разбирает cal:<hall>:<year>:<month>.
// Название зала может содержать ":", поэтому разбор идёт с конца.
func ParseCalendarCallback(data string) (string, int, time.Month, error) {
	rest, ok := strings.CutPrefix(data, CalendarPrefix)
	if !ok {
		return "", 0, 0, fmt.Errorf("invalid callback data format")
	}
	parts := strings.Split(rest, ":")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("invalid callback data format")
	}
	n := len(parts)
	year, err := strconv.Atoi(parts[n-2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year: %w", err)
	}
	month, err := strconv.Atoi(parts[n-1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid month: %w", err)
	}
	return strings.Join(parts[:n-2], ":"), year, time.Month(month), nil
}

// CalendarDayCallback собирает callback data для просмотра дня
func CalendarDayCallback(hall, date string) string {
	return CalendarDayPrefix + hall + ":" + date
}

// ParseCalendarDayCallback разбирает calday:<hall>:<YYYY-MM-DD>
func ParseCalendarDayCallback(data string) (string, time.Time, error) {
	rest, ok := strings.CutPrefix(data, CalendarDayPrefix)
	if !ok {
		return "", time.Time{}, fmt.Errorf("invalid callback data format")
	}
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid callback data format")
	}
	date, err := time.Parse("2006-01-02", rest[idx+1:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	return rest[:idx], date, nil
}

// BuildPendingScreen строит список ожидающих заявок с кнопками решения
func BuildPendingScreen(hall string, reqs []*model.BookingRequest) (string, *models.InlineKeyboardMarkup) {
	if len(reqs) == 0 {
		return fmt.Sprintf("🎉 No pending requests for %s.", hall), nil
	}

	text := fmt.Sprintf("📋 Pending requests for %s: %d\n", hall, len(reqs))
	if len(reqs) > MaxListItems {
		text += fmt.Sprintf("Showing the first %d.\n", MaxListItems)
		reqs = reqs[:MaxListItems]
	}

	var buttons [][]models.InlineKeyboardButton
	for i, req := range reqs {
		text += fmt.Sprintf("\n%d. %s\n", i+1, FormatRequest(req))
		buttons = append(buttons, []models.InlineKeyboardButton{
			{Text: fmt.Sprintf("✅ Approve #%d", i+1), CallbackData: DecideCallback(model.DecisionApprove, req.ID)},
			{Text: fmt.Sprintf("❌ Reject #%d", i+1), CallbackData: DecideCallback(model.DecisionReject, req.ID)},
		})
	}

	return text, &models.InlineKeyboardMarkup{InlineKeyboard: buttons}
}

// BuildHistoryScreen строит список решённых заявок
func BuildHistoryScreen(reqs []*model.BookingRequest) string {
	if len(reqs) == 0 {
		return "📭 No decided requests yet."
	}

	// Последние решения интереснее, показываем с конца
	text := fmt.Sprintf("🗂 Decided requests: %d\n", len(reqs))
	shown := 0
	for i := len(reqs) - 1; i >= 0 && shown < MaxListItems; i-- {
		text += "\n" + FormatRequest(reqs[i]) + "\n"
		shown++
	}
	return text
}

// BuildNotificationsScreen строит список последних уведомлений
func BuildNotificationsScreen(notes []*model.Notification) string {
	if len(notes) == 0 {
		return "🔕 No notifications."
	}

	text := fmt.Sprintf("🔔 Notifications: %d\n", len(notes))
	shown := 0
	for i := len(notes) - 1; i >= 0 && shown < MaxNotifications; i-- {
		n := notes[i]
		text += fmt.Sprintf("\n• %s\n  %s", n.Message, n.Timestamp.Format("02.01.2006 15:04"))
		shown++
	}
	return text
}

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// BuildCalendarScreen строит сетку месяца из кнопок.
// Дни с событиями помечаются точками: ● прошедшее, ○ предстоящее.
func BuildCalendarScreen(m *calendar.Month) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🗓 %s, %s %d\nTap a marked day to see its events.", m.Hall, m.Month, m.Year)

	var rows [][]models.InlineKeyboardButton

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, d := range weekdayHeader {
		header = append(header, models.InlineKeyboardButton{Text: d, CallbackData: Noop})
	}
	rows = append(rows, header)

	for _, week := range m.Weeks {
		row := make([]models.InlineKeyboardButton, 0, 7)
		for _, cell := range week {
			if cell == nil {
				row = append(row, models.InlineKeyboardButton{Text: " ", CallbackData: Noop})
				continue
			}
			label := strconv.Itoa(cell.Day)
			data := Noop
			if cell.HasEvents() {
				label += markerDots(cell.Markers)
				data = CalendarDayCallback(m.Hall, cell.Date)
			}
			row = append(row, models.InlineKeyboardButton{Text: label, CallbackData: data})
		}
		rows = append(rows, row)
	}

	py, pm := calendar.Prev(m.Year, m.Month)
	ny, nm := calendar.Next(m.Year, m.Month)
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️", CallbackData: CalendarCallback(m.Hall, py, pm)},
		{Text: fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year), CallbackData: Noop},
		{Text: "➡️", CallbackData: CalendarCallback(m.Hall, ny, nm)},
	})

	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func markerDots(markers []calendar.MarkerKind) string {
	dots := ""
	for _, mk := range markers {
		if mk == calendar.MarkerPast {
			dots += "●"
		} else {
			dots += "○"
		}
	}
	return dots
}

// BuildDayScreen строит список событий дня
func BuildDayScreen(hall, date string, events []calendar.Event) string {
	if len(events) == 0 {
		return fmt.Sprintf("📅 %s, %s\nNo events.", hall, date)
	}

	text := fmt.Sprintf("📅 %s, %s\nEvents: %d\n", hall, date, len(events))
	for _, ev := range events {
		text += fmt.Sprintf("\n🏷 %s\n🕒 %s\n👤 %s (%s)", ev.Title, ev.TimeRange(), ev.FacultyName, ev.Department)
		if ev.Description != "" {
			text += "\n📝 " + ev.Description
		}
		text += "\n"
	}
	return text
}
