package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive[S any](t *testing.T, sub *Subscription[S]) S {
	t.Helper()
	select {
	case s, ok := <-sub.C:
		require.True(t, ok, "subscription closed unexpectedly")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero S
	return zero
}

func TestWatchDeliversInitialAndChangedSnapshots(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var counter atomic.Int64

	sub := Watch(context.Background(), hub, "items", func(ctx context.Context) (int64, error) {
		return counter.Load(), nil
	})
	defer sub.Close()

	assert.Equal(t, int64(0), receive(t, sub))

	counter.Store(5)
	hub.Publish("items")
	assert.Equal(t, int64(5), receive(t, sub))

	counter.Store(7)
	hub.Publish("items")
	assert.Equal(t, int64(7), receive(t, sub))
}

func TestWatchIgnoresOtherCollections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var calls atomic.Int64

	sub := Watch(context.Background(), hub, "items", func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	})
	defer sub.Close()

	assert.Equal(t, int64(1), receive(t, sub))
	hub.Publish("other")

	select {
	case v := <-sub.C:
		t.Fatalf("unexpected snapshot %d", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseUnregistersWatcher(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := Watch(context.Background(), hub, "items", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	receive(t, sub)
	require.Equal(t, 1, hub.Subscribers("items"))

	sub.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers("items"))
	assert.NoError(t, sub.Err())
}

func TestContextCancelTearsDown(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	sub := Watch(ctx, hub, "items", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	receive(t, sub)

	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
	assert.NoError(t, sub.Err())
}

func TestQueryErrorClosesStream(t *testing.T) {
	hub := NewHub(zap.NewNop())
	boom := errors.New("permission revoked")
	var fail atomic.Bool

	sub := Watch(context.Background(), hub, "items", func(ctx context.Context) (int, error) {
		if fail.Load() {
			return 0, boom
		}
		return 1, nil
	})
	defer sub.Close()

	receive(t, sub)
	fail.Store(true)
	hub.Publish("items")

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not closed")
	}
	assert.ErrorIs(t, sub.Err(), boom)
}
