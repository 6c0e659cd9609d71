package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Resolve(ctx, facultyProfile.UID)
	require.NoError(t, err)
	assert.Equal(t, facultyProfile.Name, p.Name)

	_, err = f.profiles.Resolve(ctx, "ghost")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.profiles.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestProfileService_TelegramAndManagers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat := int64(1001)
	f.store.SeedProfiles(&model.UserProfile{UID: "hm-9", Role: model.RoleHallManager, Hall: "Architecture Hall", Name: "A", TelegramChatID: &chat})

	p, err := f.profiles.GetByTelegramChatID(ctx, chat)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "hm-9", p.UID)

	none, err := f.profiles.GetByTelegramChatID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, none)

	managers, err := f.profiles.HallManagers(ctx, "Seminar Hall")
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, seminarManager.UID, managers[0].UID)
}
