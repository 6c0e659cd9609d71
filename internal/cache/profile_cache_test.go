package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/feed"
	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProfiles struct {
	byUID  map[string]*model.UserProfile
	byChat map[int64]*model.UserProfile
	calls  int
}

func (p *countingProfiles) GetByUID(_ context.Context, uid string) (*model.UserProfile, error) {
	p.calls++
	return p.byUID[uid], nil
}

func (p *countingProfiles) GetByTelegramChatID(_ context.Context, chatID int64) (*model.UserProfile, error) {
	p.calls++
	return p.byChat[chatID], nil
}

func (p *countingProfiles) FindHeadOfDepartment(_ context.Context, department string) (*model.UserProfile, error) {
	p.calls++
	for _, prof := range p.byUID {
		if prof.Role == model.RoleHOD && prof.Department == department {
			return prof, nil
		}
	}
	return nil, nil
}

func (p *countingProfiles) ListHallManagers(_ context.Context, hall string) ([]*model.UserProfile, error) {
	p.calls++
	var out []*model.UserProfile
	for _, prof := range p.byUID {
		if prof.IsHallManagerOf(hall) {
			out = append(out, prof)
		}
	}
	return out, nil
}

func newInner() *countingProfiles {
	chat := int64(42)
	faculty := &model.UserProfile{UID: "u1", Role: model.RoleFaculty, Department: "CSE", Name: "Dr. A", TelegramChatID: &chat}
	hod := &model.UserProfile{UID: "h1", Role: model.RoleHOD, Department: "CSE", Name: "Dr. H"}
	return &countingProfiles{
		byUID:  map[string]*model.UserProfile{"u1": faculty, "h1": hod},
		byChat: map[int64]*model.UserProfile{chat: faculty},
	}
}

func TestProfileCache_WithoutRedisPassesThrough(t *testing.T) {
	inner := newInner()
	c := NewProfileCache(inner, nil, 0, zap.NewNop())
	ctx := context.Background()

	p, err := c.GetByUID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Dr. A", p.Name)

	p, err = c.GetByTelegramChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UID)

	hod, err := c.FindHeadOfDepartment(ctx, "CSE")
	require.NoError(t, err)
	assert.Equal(t, "h1", hod.UID)

	missing, err := c.GetByUID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, 4, inner.calls)
	assert.Equal(t, DefaultTTL, c.ttl)
	assert.NoError(t, c.Flush(ctx))
}

func TestProfileCache_UnreachableRedisFallsBackToStore(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	inner := newInner()
	c := NewProfileCache(inner, rdb, time.Minute, zap.NewNop())

	p, err := c.GetByUID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, model.RoleFaculty, p.Role)
	assert.Equal(t, 1, inner.calls)
}

func TestProfileCache_Keys(t *testing.T) {
	assert.Equal(t, "hallbooking:profile:uid:u1", uidKey("u1"))
	assert.Equal(t, "hallbooking:profile:chat:-100", chatKey(-100))
}

func TestProfileCache_FlushWithoutRedis(t *testing.T) {
	c := NewProfileCache(newInner(), nil, time.Minute, zap.NewNop())
	assert.NoError(t, c.Flush(context.Background()))

	// Без клиента подписка не нужна, возвращается сразу
	done := make(chan struct{})
	go func() {
		c.RunInvalidation(context.Background(), feed.NewHub(zap.NewNop()))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("invalidation should not run without redis")
	}
}

func TestProfileCache_InvalidationFollowsUsersChanges(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewProfileCache(newInner(), rdb, time.Minute, zap.NewNop())
	require.Error(t, c.Flush(context.Background()))

	hub := feed.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunInvalidation(ctx, hub)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return hub.Subscribers(model.CollectionUsers) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Ошибка Redis не останавливает подписку
	hub.Publish(model.CollectionUsers)
	assert.Equal(t, 1, hub.Subscribers(model.CollectionUsers))

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("invalidation did not stop on cancel")
	}
	assert.Equal(t, 0, hub.Subscribers(model.CollectionUsers))
}
