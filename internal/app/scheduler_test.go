package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	failOn string
}

func (p *fakePublisher) Publish(_ context.Context, key, _ string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if key == p.failOn {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func addEvents(t *testing.T, st *memory.Store, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, st.Outbox().Add(context.Background(), &model.OutboxEvent{RoutingKey: k, Payload: []byte(`{}`)}))
	}
}

func TestRelayOutbox_PublishesAndMarks(t *testing.T) {
	st := memory.New()
	addEvents(t, st, "booking.submitted", "booking.decided")

	pub := &fakePublisher{}
	s := NewScheduler(st, pub, time.Hour, 10, zap.NewNop())

	assert.Equal(t, 2, s.relayOutbox(context.Background()))
	assert.Equal(t, []string{"booking.submitted", "booking.decided"}, pub.published())

	pending, err := st.Outbox().FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.Equal(t, 0, s.relayOutbox(context.Background()))
}

func TestRelayOutbox_StopsAtFailureAndRetries(t *testing.T) {
	st := memory.New()
	addEvents(t, st, "booking.submitted", "booking.decided", "booking.submitted")

	pub := &fakePublisher{failOn: "booking.decided"}
	s := NewScheduler(st, pub, time.Hour, 10, zap.NewNop())

	assert.Equal(t, 1, s.relayOutbox(context.Background()))

	pending, err := st.Outbox().FetchPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "booking.decided", pending[0].RoutingKey)

	pub.failOn = ""
	assert.Equal(t, 2, s.relayOutbox(context.Background()))
}

func TestRelayOutbox_RespectsBatch(t *testing.T) {
	st := memory.New()
	addEvents(t, st, "a", "b", "c")

	s := NewScheduler(st, &fakePublisher{}, time.Hour, 2, zap.NewNop())
	assert.Equal(t, 2, s.relayOutbox(context.Background()))
	assert.Equal(t, 1, s.relayOutbox(context.Background()))
}

func TestScheduler_StartStop(t *testing.T) {
	st := memory.New()
	addEvents(t, st, "booking.submitted")

	pub := &fakePublisher{}
	s := NewScheduler(st, pub, 10*time.Millisecond, 10, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		return len(pub.published()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
}

type readingPublisher struct {
	st    *memory.Store
	calls int
}

func (p *readingPublisher) Publish(ctx context.Context, _, _ string, _ []byte) error {
	p.calls++
	_, err := p.st.Profiles().GetByUID(ctx, "fac-1")
	return err
}

func TestRelayOutbox_PublisherMayReadStore(t *testing.T) {
	st := memory.New()
	addEvents(t, st, "booking.submitted")

	pub := &readingPublisher{st: st}
	s := NewScheduler(st, pub, time.Hour, 10, zap.NewNop())

	done := make(chan int, 1)
	go func() { done <- s.relayOutbox(context.Background()) }()

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, pub.calls)
	case <-time.After(2 * time.Second):
		t.Fatal("relay blocked on the store")
	}
}
