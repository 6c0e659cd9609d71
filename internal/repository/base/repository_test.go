package base

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())
	assert.Empty(t, w.Args())

	w.Add("hall_name = ?", "Seminar Hall")
	w.Add("department = ?", "CSE")
	w.AddAny("approval_request", []string{"pending"})

	assert.Equal(t, "WHERE hall_name = $1 AND department = $2 AND approval_request = ANY($3)", w.SQL())
	assert.Equal(t, []any{"Seminar Hall", "CSE", []string{"pending"}}, w.Args())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("boom")))
}
