package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/calendar"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarMonth_ShowsApprovedBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := submitted(t, f)
	rejected := submitted(t, f)
	pending := submitted(t, f)

	_, err := f.workflow.Decide(ctx, seminarManager, approved.ID, model.DecisionApprove)
	require.NoError(t, err)
	_, err = f.workflow.Decide(ctx, seminarManager, rejected.ID, model.DecisionReject)
	require.NoError(t, err)

	month, err := f.calendar.Month(ctx, "Seminar Hall", 2025, time.March)
	require.NoError(t, err)

	require.Len(t, month.Weeks, 6)
	day10 := month.Weeks[2][0]
	require.NotNil(t, day10)
	assert.Equal(t, 10, day10.Day)
	assert.Equal(t, []calendar.MarkerKind{calendar.MarkerUpcoming}, day10.Markers)

	events := month.EventsOn(10)
	require.Len(t, events, 1)
	assert.Equal(t, approved.ID, events[0].RequestID)
	assert.Equal(t, "AI Talk", events[0].Title)
	assert.Equal(t, "10:00 - 11:00", events[0].TimeRange())
	assert.NotEqual(t, pending.ID, events[0].RequestID)

	other, err := f.calendar.Month(ctx, "LRDC Hall", 2025, time.March)
	require.NoError(t, err)
	assert.Empty(t, other.EventsOn(10))
}

func TestCalendarMonth_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.calendar.Month(ctx, "Main Auditorium", 2025, time.March)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.calendar.Month(ctx, "Seminar Hall", 2025, time.Month(13))
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.calendar.Month(ctx, "Seminar Hall", 0, time.March)
	require.ErrorIs(t, err, ErrValidation)
}

func TestWatchMonth_UpdatesOnApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := submitted(t, f)

	sub, err := f.calendar.WatchMonth(ctx, "Seminar Hall", 2025, time.March)
	require.NoError(t, err)
	defer sub.Close()

	assert.Empty(t, nextSnapshot(t, sub.C).EventsOn(10))

	_, err = f.workflow.Decide(ctx, seminarManager, req.ID, model.DecisionApprove)
	require.NoError(t, err)

	assert.Len(t, nextSnapshot(t, sub.C).EventsOn(10), 1)
}
