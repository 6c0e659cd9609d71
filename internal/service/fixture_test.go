package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/memory"
	"go.uber.org/zap"
)

var (
	facultyProfile = &model.UserProfile{UID: "fac-1", Role: model.RoleFaculty, Department: "CSE", Name: "Dr. Asha"}
	otherFaculty   = &model.UserProfile{UID: "fac-2", Role: model.RoleFaculty, Department: "ECE", Name: "Dr. Ravi"}
	hodProfile     = &model.UserProfile{UID: "hod-1", Role: model.RoleHOD, Department: "CSE", Name: "Dr. Head"}
	seminarManager = &model.UserProfile{UID: "hm-1", Role: model.RoleHallManager, Hall: "Seminar Hall", Name: "Manager S"}
	lrdcManager    = &model.UserProfile{UID: "hm-2", Role: model.RoleHallManager, Hall: "LRDC Hall", Name: "Manager L"}
	studentProfile = &model.UserProfile{UID: "stu-1", Role: model.RoleStudent, Department: "CSE", Name: "Student"}
)

type fixture struct {
	store         *memory.Store
	hub           *feed.Hub
	bookings      *BookingService
	archive       *ArchiveService
	notifications *NotificationService
	workflow      *WorkflowService
	calendar      *CalendarService
	profiles      *ProfileService
	now           time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	hub := feed.NewHub(logger)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	st := memory.New(
		memory.WithPublisher(hub),
		memory.WithClock(func() time.Time { return now }),
	)
	st.SeedHalls(
		&model.Hall{Name: "Seminar Hall", Location: "Building 9, Floor 4"},
		&model.Hall{Name: "LRDC Hall", Location: "Building 9, Floor 5"},
		&model.Hall{Name: "Architecture Hall", Location: "Building 3, Floor 5"},
	)
	st.SeedProfiles(facultyProfile, otherFaculty, hodProfile, seminarManager, lrdcManager, studentProfile)

	archive := NewArchiveService(st, hub, logger)
	notifier := NewNotificationService(st, hub, logger)
	workflow := NewWorkflowService(st, archive, notifier, logger)
	workflow.now = func() time.Time { return now }
	cal := NewCalendarService(st, archive, hub, logger)
	cal.now = func() time.Time { return now }

	return &fixture{
		store:         st,
		hub:           hub,
		bookings:      NewBookingService(st, hub, logger),
		archive:       archive,
		notifications: notifier,
		workflow:      workflow,
		calendar:      cal,
		profiles:      NewProfileService(st.Profiles(), logger),
		now:           now,
	}
}

func validDraft() model.BookingDraft {
	return model.BookingDraft{
		HallName:  "Seminar Hall",
		Date:      "2025-03-10",
		StartTime: "10:00",
		EndTime:   "11:00",
		Reason:    "Guest lecture",
		Title:     "AI Talk",
	}
}
