package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, capacity int) (*MemorySessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := NewMemorySessionStore(ttl, capacity)
	s.now = clock.now
	return s, clock
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)

	state, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s, _ := newTestStore(time.Minute, 10)
	ctx := context.Background()

	in := &model.SessionState{SessionID: "s1", TurnCount: 3, Engaged: true}
	require.NoError(t, s.Put(ctx, "s1", in))

	out, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 3, out.TurnCount)
	assert.True(t, out.Engaged)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "s1", &model.SessionState{SessionID: "s1", TurnCount: 1}))

	clock.advance(59 * time.Second)
	state, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, state)

	clock.advance(2 * time.Second)
	state, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryStorePutRefreshesExpiry(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "s1", &model.SessionState{SessionID: "s1", TurnCount: 1}))
	clock.advance(45 * time.Second)
	require.NoError(t, s.Put(ctx, "s1", &model.SessionState{SessionID: "s1", TurnCount: 2}))
	clock.advance(45 * time.Second)

	state, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 2, state.TurnCount)
}

func TestMemoryStoreCapacityEviction(t *testing.T) {
	s, clock := newTestStore(time.Hour, 2)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old", &model.SessionState{SessionID: "old"}))
	clock.advance(time.Second)
	require.NoError(t, s.Put(ctx, "mid", &model.SessionState{SessionID: "mid"}))
	clock.advance(time.Second)
	require.NoError(t, s.Put(ctx, "new", &model.SessionState{SessionID: "new"}))

	old, err := s.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, old, "oldest session should have been evicted")

	mid, err := s.Get(ctx, "mid")
	require.NoError(t, err)
	assert.NotNil(t, mid)

	latest, err := s.Get(ctx, "new")
	require.NoError(t, err)
	assert.NotNil(t, latest)
}

func TestMemoryStoreSweepDropsExpired(t *testing.T) {
	s, clock := newTestStore(time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", &model.SessionState{SessionID: "a"}))
	require.NoError(t, s.Put(ctx, "b", &model.SessionState{SessionID: "b"}))
	clock.advance(2 * time.Minute)
	require.NoError(t, s.Put(ctx, "c", &model.SessionState{SessionID: "c"}))

	assert.Equal(t, 2, s.sweep())

	state, err := s.Get(ctx, "c")
	require.NoError(t, err)
	assert.NotNil(t, state)
}
