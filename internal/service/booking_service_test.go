package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.bookings.Submit(ctx, facultyProfile.UID, validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, model.ApprovalStatusPending, req.ApprovalRequest)
	assert.Equal(t, f.now, req.CreatedAt)
	assert.Equal(t, "CSE", req.Department)
	assert.Equal(t, "Dr. Asha", req.FacultyName)
	assert.Equal(t, facultyProfile.UID, req.FacultyUID)

	stored, err := f.bookings.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, stored)

	events, err := f.store.Outbox().FetchPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, queue.RKBookingSubmitted, events[0].RoutingKey)

	var payload queue.BookingSubmittedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, req.ID, payload.RequestID)
	assert.Equal(t, "Seminar Hall", payload.HallName)
}

func TestSubmit_HODMaySubmit(t *testing.T) {
	f := newFixture(t)

	req, err := f.bookings.Submit(context.Background(), hodProfile.UID, validDraft())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Head", req.FacultyName)
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		uid     string
		mutate  func(d *model.BookingDraft)
		wantErr error
	}{
		{name: "unknown profile", uid: "ghost", wantErr: ErrValidation},
		{name: "student", uid: studentProfile.UID, wantErr: ErrForbidden},
		{name: "hall manager", uid: seminarManager.UID, wantErr: ErrForbidden},
		{name: "missing hall", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.HallName = "" }, wantErr: ErrValidation},
		{name: "unknown hall", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.HallName = "Main Auditorium" }, wantErr: ErrValidation},
		{name: "bad date", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.Date = "10/03/2025" }, wantErr: ErrValidation},
		{name: "bad time", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.StartTime = "25:00" }, wantErr: ErrValidation},
		{name: "end before start", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.EndTime = "09:00" }, wantErr: ErrValidation},
		{name: "end equals start", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.EndTime = "10:00" }, wantErr: ErrValidation},
		{name: "single-digit end hour", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.EndTime = "9:30" }, wantErr: ErrValidation},
		{name: "single-digit start hour", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.StartTime = "9:30" }, wantErr: ErrValidation},
		{name: "missing reason", uid: facultyProfile.UID, mutate: func(d *model.BookingDraft) { d.Reason = "" }, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			draft := validDraft()
			if tt.mutate != nil {
				tt.mutate(&draft)
			}

			req, err := f.bookings.Submit(context.Background(), tt.uid, draft)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, req)

			all, err := f.store.Requests().List(context.Background(), model.Scope{})
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSubmit_ComparesTimesAcrossHourDigits(t *testing.T) {
	f := newFixture(t)
	draft := validDraft()
	draft.StartTime = "09:30"
	draft.EndTime = "11:00"

	req, err := f.bookings.Submit(context.Background(), facultyProfile.UID, draft)
	require.NoError(t, err)
	assert.Equal(t, "09:30", req.StartTime)
	assert.Equal(t, "11:00", req.EndTime)
}

func TestSubmit_ProfileWithoutDepartment(t *testing.T) {
	f := newFixture(t)
	f.store.SeedProfiles(&model.UserProfile{UID: "fac-x", Role: model.RoleFaculty, Name: "No Dept"})

	_, err := f.bookings.Submit(context.Background(), "fac-x", validDraft())
	require.ErrorIs(t, err, ErrValidation)
}

func TestQueue_RoleScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seminar, err := f.bookings.Submit(ctx, facultyProfile.UID, validDraft())
	require.NoError(t, err)

	lrdcDraft := validDraft()
	lrdcDraft.HallName = "LRDC Hall"
	lrdc, err := f.bookings.Submit(ctx, otherFaculty.UID, lrdcDraft)
	require.NoError(t, err)

	own, err := f.bookings.Queue(ctx, facultyProfile)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, seminar.ID, own[0].ID)

	dept, err := f.bookings.Queue(ctx, hodProfile)
	require.NoError(t, err)
	require.Len(t, dept, 1)
	assert.Equal(t, seminar.ID, dept[0].ID)

	hall, err := f.bookings.Queue(ctx, lrdcManager)
	require.NoError(t, err)
	require.Len(t, hall, 1)
	assert.Equal(t, lrdc.ID, hall[0].ID)

	_, err = f.bookings.Queue(ctx, studentProfile)
	require.ErrorIs(t, err, ErrForbidden)

	// После решения заявка пропадает из очередей менеджера и кафедры, но остаётся у преподавателя
	_, err = f.workflow.Decide(ctx, seminarManager, seminar.ID, model.DecisionApprove)
	require.NoError(t, err)

	hall, err = f.bookings.Queue(ctx, seminarManager)
	require.NoError(t, err)
	assert.Empty(t, hall)

	dept, err = f.bookings.Queue(ctx, hodProfile)
	require.NoError(t, err)
	assert.Empty(t, dept)

	own, err = f.bookings.QueryByOwner(ctx, facultyProfile.UID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, model.ApprovalStatusApproved, own[0].ApprovalRequest)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWatchQueue_StreamsSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.bookings.WatchQueue(ctx, seminarManager)
	require.NoError(t, err)
	defer sub.Close()

	assert.Empty(t, nextSnapshot(t, sub.C))

	req, err := f.bookings.Submit(ctx, facultyProfile.UID, validDraft())
	require.NoError(t, err)

	snap := nextSnapshot(t, sub.C)
	require.Len(t, snap, 1)
	assert.Equal(t, req.ID, snap[0].ID)

	_, err = f.workflow.Decide(ctx, seminarManager, req.ID, model.DecisionReject)
	require.NoError(t, err)

	assert.Empty(t, nextSnapshot(t, sub.C))

	sub.Close()
	assert.Equal(t, 0, f.hub.Subscribers(model.CollectionBookingRequests))
}

func TestWatchQueue_ForbiddenRole(t *testing.T) {
	f := newFixture(t)

	sub, err := f.bookings.WatchQueue(context.Background(), studentProfile)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, sub)
}

func TestHalls_ListsCatalog(t *testing.T) {
	f := newFixture(t)

	halls, err := f.bookings.Halls(context.Background())
	require.NoError(t, err)
	require.Len(t, halls, 3)
	assert.Equal(t, "Seminar Hall", halls[0].Name)
	assert.Equal(t, "Building 3, Floor 5", halls[2].Location)
}

func nextSnapshot[S any](t *testing.T, c <-chan S) S {
	t.Helper()
	select {
	case s, ok := <-c:
		require.True(t, ok, "subscription closed unexpectedly")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero S
	return zero
}
