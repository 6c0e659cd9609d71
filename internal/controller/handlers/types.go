package handlers

import (
	"github.com/Freeeeeet/hall_booking/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	profileService      *service.ProfileService
	bookingService      *service.BookingService
	workflowService     *service.WorkflowService
	archiveService      *service.ArchiveService
	notificationService *service.NotificationService
	calendarService     *service.CalendarService
	logger              *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	profileService *service.ProfileService,
	bookingService *service.BookingService,
	workflowService *service.WorkflowService,
	archiveService *service.ArchiveService,
	notificationService *service.NotificationService,
	calendarService *service.CalendarService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		profileService:      profileService,
		bookingService:      bookingService,
		workflowService:     workflowService,
		archiveService:      archiveService,
		notificationService: notificationService,
		calendarService:     calendarService,
		logger:              logger,
	}
}
