package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_Matches(t *testing.T) {
	req := &BookingRequest{HallName: "Seminar Hall", Department: "CSE", FacultyUID: "fac-1", ApprovalRequest: ApprovalStatusPending}

	assert.True(t, Scope{}.Matches(req))
	assert.True(t, Scope{HallName: "Seminar Hall"}.Matches(req))
	assert.False(t, Scope{HallName: "LRDC Hall"}.Matches(req))
	assert.False(t, Scope{Department: "ECE"}.Matches(req))
	assert.False(t, Scope{FacultyUID: "fac-2"}.Matches(req))
}

func TestScope_WithStatusesCopies(t *testing.T) {
	base := Scope{HallName: "Seminar Hall", Statuses: []ApprovalStatus{ApprovalStatusPending}}
	approved := base.WithStatuses(ApprovalStatusApproved)

	req := &BookingRequest{HallName: "Seminar Hall", ApprovalRequest: ApprovalStatusApproved}
	assert.True(t, approved.Matches(req))
	assert.False(t, base.Matches(req))
	assert.Equal(t, []ApprovalStatus{ApprovalStatusPending}, base.Statuses)
}
