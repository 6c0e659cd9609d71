package service

import (
	"testing"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFor(t *testing.T) {
	pending := []model.ApprovalStatus{model.ApprovalStatusPending}

	tests := []struct {
		name    string
		profile *model.UserProfile
		want    model.Scope
		wantErr error
	}{
		{name: "faculty", profile: facultyProfile, want: model.Scope{FacultyUID: "fac-1"}},
		{name: "hod", profile: hodProfile, want: model.Scope{Department: "CSE", Statuses: pending}},
		{name: "hall manager", profile: seminarManager, want: model.Scope{HallName: "Seminar Hall", Statuses: pending}},
		{name: "student", profile: studentProfile, wantErr: ErrForbidden},
		{name: "unknown role", profile: &model.UserProfile{UID: "x", Role: "admin"}, wantErr: ErrForbidden},
		{name: "nil profile", profile: nil, wantErr: ErrForbidden},
		{name: "hod without department", profile: &model.UserProfile{UID: "h", Role: model.RoleHOD}, wantErr: ErrValidation},
		{name: "hall manager without hall", profile: &model.UserProfile{UID: "m", Role: model.RoleHallManager}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScopeFor(tt.profile)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeMatches(t *testing.T) {
	req := &model.BookingRequest{
		HallName:        "Seminar Hall",
		Department:      "CSE",
		FacultyUID:      "fac-1",
		ApprovalRequest: model.ApprovalStatusPending,
	}

	hallScope, err := ScopeFor(seminarManager)
	require.NoError(t, err)
	assert.True(t, hallScope.Matches(req))

	otherHall, err := ScopeFor(lrdcManager)
	require.NoError(t, err)
	assert.False(t, otherHall.Matches(req))

	req.ApprovalRequest = model.ApprovalStatusApproved
	assert.False(t, hallScope.Matches(req))

	own, err := ScopeFor(facultyProfile)
	require.NoError(t, err)
	assert.True(t, own.Matches(req))
}

func TestHistoryScopeFor(t *testing.T) {
	terminal := []model.ApprovalStatus{model.ApprovalStatusApproved, model.ApprovalStatusCanceled}

	got, err := HistoryScopeFor(seminarManager)
	require.NoError(t, err)
	assert.Equal(t, model.Scope{HallName: "Seminar Hall", Statuses: terminal}, got)

	got, err = HistoryScopeFor(hodProfile)
	require.NoError(t, err)
	assert.Equal(t, model.Scope{Department: "CSE", Statuses: terminal}, got)

	_, err = HistoryScopeFor(studentProfile)
	require.ErrorIs(t, err, ErrForbidden)
}
