package multiplayer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)

	s.Send(MatchFoundEvent{RoomID: "1"})
	s.Send(MatchFoundEvent{RoomID: "2"})
	s.Send(MatchFoundEvent{RoomID: "3"})

	assert.Equal(t, uint64(1), s.Dropped())
	assert.Equal(t, MatchFoundEvent{RoomID: "2"}, <-s.Events())
	assert.Equal(t, MatchFoundEvent{RoomID: "3"}, <-s.Events())
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("s", 0)
	s.Close()
	s.Close()

	s.Send(WaitingForOpponentEvent{})

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed")
	}
	assert.Empty(t, s.Events())
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := NewChannelSession("a", 1)

	r.Register(s)
	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Count())

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	_, ok = r.Get("a")
	assert.False(t, ok)
}

func TestTickerScheduler(t *testing.T) {
	var calls atomic.Int64
	cancel := TickerScheduler{}.Every(time.Millisecond, func() {
		calls.Add(1)
	})

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}
