// Package api HTTP интерфейс ядра бронирования залов.
package api

import (
	"net/http"

	"github.com/Freeeeeet/hall_booking/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	profiles      *service.ProfileService
	bookings      *service.BookingService
	workflow      *service.WorkflowService
	archive       *service.ArchiveService
	notifications *service.NotificationService
	calendar      *service.CalendarService
	logger        *zap.Logger
}

func NewHandler(
	profiles *service.ProfileService,
	bookings *service.BookingService,
	workflow *service.WorkflowService,
	archive *service.ArchiveService,
	notifications *service.NotificationService,
	calendar *service.CalendarService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		profiles:      profiles,
		bookings:      bookings,
		workflow:      workflow,
		archive:       archive,
		notifications: notifications,
		calendar:      calendar,
		logger:        logger,
	}
}

// NewServer собирает echo с маршрутами API
func NewServer(h *Handler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", Health)

	g := e.Group("/api")
	g.Use(JWTIdentity(jwtSecret, h.profiles))

	g.POST("/requests", h.Submit)
	g.GET("/requests", h.ListRequests)
	g.GET("/requests/stream", h.StreamRequests)
	g.POST("/requests/:id/decision", h.Decide)
	g.GET("/history", h.History)
	g.GET("/calendar", h.Calendar)
	g.GET("/halls", h.Halls)
	g.GET("/notifications", h.Notifications)
	g.GET("/notifications/stream", h.StreamNotifications)

	return e
}

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
