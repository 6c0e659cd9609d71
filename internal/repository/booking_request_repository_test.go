package repository

import (
	"testing"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScopeWhere(t *testing.T) {
	tests := []struct {
		name     string
		scope    model.Scope
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "empty",
			scope:    model.Scope{},
			wantSQL:  "",
			wantArgs: nil,
		},
		{
			name:     "faculty",
			scope:    model.Scope{FacultyUID: "fac-1"},
			wantSQL:  "WHERE faculty_uid = $1",
			wantArgs: []any{"fac-1"},
		},
		{
			name:     "hall manager",
			scope:    model.Scope{HallName: "Seminar Hall", Statuses: []model.ApprovalStatus{model.ApprovalStatusPending}},
			wantSQL:  "WHERE hall_name = $1 AND approval_request = ANY($2)",
			wantArgs: []any{"Seminar Hall", []string{"pending"}},
		},
		{
			name: "hod history",
			scope: model.Scope{
				Department: "CSE",
				Statuses:   []model.ApprovalStatus{model.ApprovalStatusApproved, model.ApprovalStatusCanceled},
			},
			wantSQL:  "WHERE department = $1 AND approval_request = ANY($2)",
			wantArgs: []any{"CSE", []string{"approved_by_hallmanager", "cancelled"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where := scopeWhere(tt.scope)
			assert.Equal(t, tt.wantSQL, where.SQL())
			assert.Equal(t, tt.wantArgs, where.Args())
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir(MigrationsDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
}
