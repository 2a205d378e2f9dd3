package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIdempotent(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	r1 := reg.GetOrCreate("lobby")
	r2 := reg.GetOrCreate("lobby")
	assert.Same(t, r1, r2)

	other := reg.GetOrCreate("den")
	assert.NotSame(t, r1, other)
}

func TestPurgeGracePreservesHistoryForRejoin(t *testing.T) {
	reg := NewRegistry(RegistryOptions{
		PurgeGrace:    80 * time.Millisecond,
		SweepInterval: time.Hour,
		MaxIdle:       time.Hour,
	})
	svc := NewService(reg, Options{})

	a := newFakeConn("conn-a")
	require.NoError(t, svc.Join(a, "alice", "lobby"))
	require.NoError(t, svc.PostMessage(a, "alice", "remember me"))
	svc.Leave(a)

	// Quick rejoin lands inside the grace window: the purge is
	// cancelled and the history is intact.
	b := newFakeConn("conn-b")
	require.NoError(t, svc.Join(b, "bob", "lobby"))
	history := b.lastBody(EventChatHistory).([]*Message)
	bodies := make([]string, 0, len(history))
	for _, m := range history {
		bodies = append(bodies, m.Body)
	}
	assert.Contains(t, bodies, "remember me")

	// The cancelled purge must stay a no-op even after its deadline.
	time.Sleep(160 * time.Millisecond)
	_, err := reg.RoomDetail("lobby")
	assert.NoError(t, err, "occupied room must not be purged")

	// Once empty and past the grace the room is reclaimed.
	svc.Leave(b)
	require.Eventually(t, func() bool {
		_, err := reg.RoomDetail("lobby")
		return err != nil
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, reg.Stats())
}

func TestRemoveIfEmptyIgnoresOccupiedRoom(t *testing.T) {
	reg := NewRegistry(RegistryOptions{PurgeGrace: 10 * time.Millisecond})
	svc := NewService(reg, Options{})

	a := newFakeConn("conn-a")
	require.NoError(t, svc.Join(a, "alice", "lobby"))
	reg.RemoveIfEmpty("lobby")

	time.Sleep(50 * time.Millisecond)
	detail, err := reg.RoomDetail("lobby")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.UserCount)
}

func TestSweepStale(t *testing.T) {
	reg := NewRegistry(RegistryOptions{
		PurgeGrace:    time.Hour, // keep the delayed purge out of the way
		SweepInterval: time.Hour,
		MaxIdle:       time.Hour,
	})
	svc := NewService(reg, Options{})

	idle := newFakeConn("conn-idle")
	require.NoError(t, svc.Join(idle, "ida", "stale-room"))
	require.NoError(t, svc.PostMessage(idle, "ida", "old news"))
	svc.Leave(idle)

	busy := newFakeConn("conn-busy")
	require.NoError(t, svc.Join(busy, "bob", "busy-room"))
	require.NoError(t, svc.PostMessage(busy, "bob", "fresh"))

	time.Sleep(20 * time.Millisecond)
	reg.SweepStale(10 * time.Millisecond)

	_, err := reg.RoomDetail("stale-room")
	assert.Error(t, err, "idle empty room is reclaimed")
	_, err = reg.RoomDetail("busy-room")
	assert.NoError(t, err, "occupied room survives regardless of age")
}

func TestStatsSnapshot(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	svc := NewService(reg, Options{})

	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	require.NoError(t, svc.Join(a, "alice", "alpha"))
	require.NoError(t, svc.Join(b, "bob", "beta"))
	require.NoError(t, svc.PostMessage(a, "alice", "hello"))

	stats := reg.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "alpha", stats[0].ID)
	assert.Equal(t, "beta", stats[1].ID)
	assert.Equal(t, 1, stats[0].UserCount)
	assert.Equal(t, 2, stats[0].MessageCount, "join notice plus chat message")
	assert.False(t, stats[0].LastActivity.IsZero())

	rooms, users, messages := reg.Totals()
	assert.Equal(t, 2, rooms)
	assert.Equal(t, 2, users)
	assert.Equal(t, 3, messages)
}
