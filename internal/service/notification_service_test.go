package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_CreatesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var created *model.Notification
	err := f.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		created, err = f.notifications.Notify(ctx, tx, "fac-1", "hello", "req-1")
		return err
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, f.now, created.Timestamp)

	inbox, err := f.notifications.ListForRecipient(ctx, "fac-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, created, inbox[0])
}

func TestInbox_HODIncludesDepartmentLabel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := f.notifications.Notify(ctx, tx, "CSE", "to department", "req-1"); err != nil {
			return err
		}
		_, err := f.notifications.Notify(ctx, tx, hodProfile.UID, "to head", "req-2")
		return err
	})
	require.NoError(t, err)

	inbox, err := f.notifications.Inbox(ctx, hodProfile)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	facultyInbox, err := f.notifications.Inbox(ctx, facultyProfile)
	require.NoError(t, err)
	assert.Empty(t, facultyInbox)
}

func TestWatchInbox_ReceivesDecisionNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := submitted(t, f)

	sub := f.notifications.WatchInbox(ctx, facultyProfile)
	defer sub.Close()

	assert.Empty(t, nextSnapshot(t, sub.C))

	_, err := f.workflow.Decide(ctx, seminarManager, req.ID, model.DecisionApprove)
	require.NoError(t, err)

	snap := nextSnapshot(t, sub.C)
	require.Len(t, snap, 1)
	assert.Equal(t, "Your booking request has been approved", snap[0].Message)
	assert.Equal(t, req.ID, snap[0].RequestID)
}
