package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Submit обрабатывает POST /api/requests
func (h *Handler) Submit(c echo.Context) error {
	var draft model.BookingDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	req, err := h.bookings.Submit(c.Request().Context(), currentProfile(c).UID, draft)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, req)
}

// ListRequests обрабатывает GET /api/requests: очередь, видимая пользователю
func (h *Handler) ListRequests(c echo.Context) error {
	reqs, err := h.bookings.Queue(c.Request().Context(), currentProfile(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": nonNil(reqs)})
}

// StreamRequests обрабатывает GET /api/requests/stream
func (h *Handler) StreamRequests(c echo.Context) error {
	sub, err := h.bookings.WatchQueue(c.Request().Context(), currentProfile(c))
	if err != nil {
		return writeError(c, err)
	}
	defer sub.Close()

	return streamSnapshots(c, sub.C, sub.Err)
}

// Decide обрабатывает POST /api/requests/:id/decision
func (h *Handler) Decide(c echo.Context) error {
	var body struct {
		Decision model.Decision `json:"decision"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := currentProfile(c)
	status, err := h.workflow.Decide(c.Request().Context(), actor, c.Param("id"), body.Decision)
	if err != nil {
		h.logger.Debug("Decision rejected",
			zap.String("request_id", c.Param("id")),
			zap.String("actor", actor.UID),
			zap.Error(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "approvalRequest": status})
}

// History обрабатывает GET /api/history
func (h *Handler) History(c echo.Context) error {
	reqs, err := h.archive.History(c.Request().Context(), currentProfile(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": nonNil(reqs)})
}

// Calendar обрабатывает GET /api/calendar?hall=&year=&month=.
// Без year и month показывается текущий месяц.
func (h *Handler) Calendar(c echo.Context) error {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if v := c.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		year = y
	}
	if v := c.QueryParam("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
		}
		month = time.Month(m)
	}

	grid, err := h.calendar.Month(c.Request().Context(), c.QueryParam("hall"), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, grid)
}

// Halls обрабатывает GET /api/halls
func (h *Handler) Halls(c echo.Context) error {
	halls, err := h.bookings.Halls(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": nonNil(halls)})
}

// Notifications обрабатывает GET /api/notifications
func (h *Handler) Notifications(c echo.Context) error {
	notes, err := h.notifications.Inbox(c.Request().Context(), currentProfile(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": nonNil(notes)})
}

// StreamNotifications обрабатывает GET /api/notifications/stream
func (h *Handler) StreamNotifications(c echo.Context) error {
	sub := h.notifications.WatchInbox(c.Request().Context(), currentProfile(c))
	defer sub.Close()

	return streamSnapshots(c, sub.C, sub.Err)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
