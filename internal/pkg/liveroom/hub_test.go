package liveroom

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn opens a real websocket connection against a throwaway server
// so clients registered with the hub carry a usable conn.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := up.Upgrade(w, r, nil); err != nil {
			t.Errorf("upgrade failed: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newRoomClient(t *testing.T, hub *Hub, liveClassID, userID int64, buffer int) *Client {
	t.Helper()
	return &Client{
		hub:         hub,
		conn:        dialTestConn(t),
		send:        make(chan []byte, buffer),
		userID:      userID,
		senderName:  "user",
		liveClassID: liveClassID,
		logger:      zerolog.Nop(),
	}
}

func TestBroadcastDropsSlowClientWithoutStalling(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	const liveClassID = int64(7)

	// The fast client drains nothing but has headroom; the slow client has an
	// unbuffered send channel nobody reads, so the first broadcast cannot be
	// delivered to it.
	fast := newRoomClient(t, hub, liveClassID, 1, 8)
	slow := newRoomClient(t, hub, liveClassID, 2, 0)
	hub.register <- fast
	hub.register <- slow

	require.Eventually(t, func() bool {
		return hub.RoomSize(liveClassID) == 2
	}, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom(&Message{Type: "chat", LiveClassID: liveClassID, Content: "first"})
		hub.BroadcastToRoom(&Message{Type: "chat", LiveClassID: liveClassID, Content: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub stalled broadcasting past a slow client")
	}

	// The slow client is gone, its send channel is closed, and the fast
	// client received both messages.
	require.Eventually(t, func() bool {
		return hub.RoomSize(liveClassID) == 1
	}, time.Second, 10*time.Millisecond)

	select {
	case _, ok := <-slow.send:
		assert.False(t, ok, "slow client send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("slow client send channel was not closed")
	}

	require.Eventually(t, func() bool {
		return len(fast.send) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestUnregisterAfterBroadcastDropIsHarmless(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	const liveClassID = int64(9)

	slow := newRoomClient(t, hub, liveClassID, 3, 0)
	hub.register <- slow

	require.Eventually(t, func() bool {
		return hub.RoomSize(liveClassID) == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastToRoom(&Message{Type: "chat", LiveClassID: liveClassID, Content: "hello"})

	require.Eventually(t, func() bool {
		return hub.RoomSize(liveClassID) == 0
	}, time.Second, 10*time.Millisecond)

	// A late unregister, as readPump issues when the connection dies, must
	// not close the send channel a second time.
	hub.unregister <- slow

	require.Eventually(t, func() bool {
		return hub.RoomSize(liveClassID) == 0
	}, time.Second, 10*time.Millisecond)
}
