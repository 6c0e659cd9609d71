// Package calendar строит сетку месяца из одобренных бронирований зала.
package calendar

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
)

// MaxMarkers максимум отметок в ячейке, остальные события видны в списке дня
const MaxMarkers = 2

// DefaultEventTitle подпись события без названия
const DefaultEventTitle = "Event"

type MarkerKind string

const (
	MarkerPast     MarkerKind = "past"
	MarkerUpcoming MarkerKind = "upcoming"
)

// Event событие дня в том виде, в котором его показывает календарь
type Event struct {
	RequestID   string `json:"requestId"`
	Title       string `json:"title"`
	FacultyName string `json:"facultyName"`
	Department  string `json:"department"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// TimeRange возвращает интервал в виде "10:00 - 11:00"
func (e Event) TimeRange() string {
	return fmt.Sprintf("%s - %s", e.StartTime, e.EndTime)
}

// Day ячейка реального дня месяца
type Day struct {
	Day     int          `json:"day"`
	Date    string       `json:"date"`
	Markers []MarkerKind `json:"markers"`
	Events  []Event      `json:"events"`
}

// HasEvents проверяет есть ли события в этот день
func (d *Day) HasEvents() bool {
	return len(d.Events) > 0
}

// Week неделя с понедельника по воскресенье, nil для дней вне месяца
type Week [7]*Day

// Month модель сетки месяца
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Hall  string     `json:"hall"`
	Weeks []Week     `json:"weeks"`
}

// Build строит сетку месяца. В календарь попадают только события указанного зала
// со статусом approved_by_hallmanager. today сравнивается только по дате.
func Build(year int, month time.Month, hall string, events []*model.BookingRequest, today time.Time) *Month {
	byDate := make(map[string][]Event)
	for _, ev := range events {
		if !Includes(ev, hall) {
			continue
		}
		byDate[ev.Date] = append(byDate[ev.Date], toEvent(ev))
	}

	loc := today.Location()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Понедельник первая колонка: воскресенье (0) уходит в конец
	startDay := (int(first.Weekday()) + 6) % 7
	daysInMonth := DaysIn(year, month)

	m := &Month{Year: year, Month: month, Hall: hall}

	var week Week
	col := startDay
	for day := 1; day <= daysInMonth; day++ {
		cellDate := time.Date(year, month, day, 0, 0, 0, 0, loc)
		date := FormatDate(year, month, day)

		kind := MarkerUpcoming
		if cellDate.Before(todayDate) {
			kind = MarkerPast
		}

		cell := &Day{Day: day, Date: date, Events: byDate[date]}
		for i := 0; i < len(cell.Events) && i < MaxMarkers; i++ {
			cell.Markers = append(cell.Markers, kind)
		}

		week[col] = cell
		col++
		if col == 7 {
			m.Weeks = append(m.Weeks, week)
			week = Week{}
			col = 0
		}
	}

	// Добиваем последнюю неделю пустыми ячейками
	if col > 0 {
		m.Weeks = append(m.Weeks, week)
	}

	return m
}

// Includes проверяет попадает ли запись архива в календарь зала
func Includes(r *model.BookingRequest, hall string) bool {
	return r.ApprovalRequest == model.ApprovalStatusApproved && r.HallName == hall
}

// EventsOn возвращает все события дня или nil, если день вне месяца
func (m *Month) EventsOn(day int) []Event {
	for _, week := range m.Weeks {
		for _, cell := range week {
			if cell != nil && cell.Day == day {
				return cell.Events
			}
		}
	}
	return nil
}

// Days возвращает количество реальных дней в сетке
func (m *Month) Days() int {
	n := 0
	for _, week := range m.Weeks {
		for _, cell := range week {
			if cell != nil {
				n++
			}
		}
	}
	return n
}

// Prev возвращает предыдущий месяц с переходом через год
func Prev(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// Next возвращает следующий месяц с переходом через год
func Next(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// DaysIn возвращает количество дней в месяце
func DaysIn(year int, month time.Month) int {
	// Нулевой день следующего месяца это последний день текущего
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

func toEvent(r *model.BookingRequest) Event {
	title := r.Title
	if title == "" {
		title = DefaultEventTitle
	}
	return Event{
		RequestID:   r.ID,
		Title:       title,
		FacultyName: r.FacultyName,
		Department:  r.Department,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
	}
}
