package multiplayer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pong-arena/internal/games/pong"
)

type snapshotRecorder struct {
	mu    sync.Mutex
	snaps map[RoomID][]pong.Snapshot
}

func (r *snapshotRecorder) Broadcast(roomID RoomID, snap pong.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snaps == nil {
		r.snaps = make(map[RoomID][]pong.Snapshot)
	}
	r.snaps[roomID] = append(r.snaps[roomID], snap)
}

func (r *snapshotRecorder) Count(roomID RoomID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps[roomID])
}

func newTestManager(seed int64) (*Manager, *manualScheduler, *snapshotRecorder) {
	sched := &manualScheduler{}
	rec := &snapshotRecorder{}
	m := NewManager(ManagerConfig{Seed: seed}, sched, testLogger())
	m.SetBroadcaster(rec)
	return m, sched, rec
}

func TestManagerCreate(t *testing.T) {
	m, sched, _ := newTestManager(1)

	room, err := m.Create("game_1")
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.Equal(t, RoomID("game_1"), room.ID())
	assert.Equal(t, RoomCreated, room.State())
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 1, sched.Active())
	assert.Same(t, room, m.Get("game_1"))

	snap := room.Snapshot()
	assert.Equal(t, pong.Position{}, snap.BallPosition)
	assert.Zero(t, snap.LeftPaddlePositionY)
	assert.Zero(t, snap.RightPaddlePositionY)

	_, err = m.Create("game_1")
	require.ErrorIs(t, err, ErrRoomExists)
	assert.Equal(t, 1, m.Count())
}

func TestManagerTickBroadcasts(t *testing.T) {
	m, sched, rec := newTestManager(1)
	room, err := m.Create("game_1")
	require.NoError(t, err)

	sched.Fire()
	sched.Fire()

	assert.Equal(t, RoomActive, room.State())
	require.Equal(t, 2, rec.Count("game_1"))
	assert.Equal(t, uint64(2), rec.snaps["game_1"][1].Tick)
	assert.NotEqual(t, pong.Position{}, rec.snaps["game_1"][0].BallPosition)
}

func TestManagerRoomsTickIndependently(t *testing.T) {
	m, sched, rec := newTestManager(1)
	_, err := m.Create("a")
	require.NoError(t, err)
	sched.Fire()
	_, err = m.Create("b")
	require.NoError(t, err)
	sched.Fire()

	assert.Equal(t, 2, rec.Count("a"))
	assert.Equal(t, 1, rec.Count("b"))
}

func TestManagerEnd(t *testing.T) {
	m, sched, rec := newTestManager(1)
	room, err := m.Create("game_1")
	require.NoError(t, err)

	assert.True(t, m.End("game_1"))
	assert.Equal(t, RoomEnded, room.State())
	assert.Nil(t, m.Get("game_1"))
	assert.Zero(t, m.Count())
	assert.Zero(t, sched.Active())

	assert.False(t, m.End("game_1"))
	assert.False(t, m.End("missing"))

	// A tick that was already scheduled when the room ended is skipped.
	m.tick(room)
	assert.Zero(t, rec.Count("game_1"))

	// The id is free again.
	_, err = m.Create("game_1")
	require.NoError(t, err)
}

func TestManagerShutdown(t *testing.T) {
	m, sched, _ := newTestManager(1)
	r1, err := m.Create("a")
	require.NoError(t, err)
	r2, err := m.Create("b")
	require.NoError(t, err)

	m.Shutdown()

	assert.Zero(t, m.Count())
	assert.Zero(t, sched.Active())
	assert.Equal(t, RoomEnded, r1.State())
	assert.Equal(t, RoomEnded, r2.State())
}

func TestManagerSeedIsDeterministic(t *testing.T) {
	m1, s1, rec1 := newTestManager(99)
	m2, s2, rec2 := newTestManager(99)
	_, err := m1.Create("x")
	require.NoError(t, err)
	_, err = m2.Create("y")
	require.NoError(t, err)

	s1.Fire()
	s2.Fire()

	assert.Equal(t, rec1.snaps["x"][0].BallPosition, rec2.snaps["y"][0].BallPosition)
}

func TestManagerIDs(t *testing.T) {
	m, _, _ := newTestManager(1)
	for _, id := range []RoomID{"c", "a", "b"} {
		_, err := m.Create(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []RoomID{"a", "b", "c"}, m.IDs())
}

func TestRoomJoin(t *testing.T) {
	m, _, _ := newTestManager(1)
	room, err := m.Create("r")
	require.NoError(t, err)

	assert.Equal(t, pong.SideLeft, room.Join("p1"))
	assert.Equal(t, pong.SideLeft, room.Join("p1"))
	assert.Equal(t, pong.SideRight, room.Join("p2"))
	assert.Equal(t, pong.SideNone, room.Join("p3"))
	assert.Equal(t, pong.Players{Left: "p1", Right: "p2"}, room.Players())
}

func TestRoomMovePaddleAfterEnd(t *testing.T) {
	m, _, _ := newTestManager(1)
	room, err := m.Create("r")
	require.NoError(t, err)
	room.Join("p1")
	m.End("r")

	assert.Equal(t, pong.SideNone, room.MovePaddle("p1", 2))
	assert.Zero(t, room.Snapshot().LeftPaddlePositionY)
}
