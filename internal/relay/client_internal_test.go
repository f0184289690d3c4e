package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcrafter/internal/model"
)

func TestClient_NotifyDroppedWhileDisconnected(t *testing.T) {
	c := NewClient(ClientOptions{URL: "ws://127.0.0.1:1/ws"})

	c.Notify(model.UpdateAdd, model.Task{ID: "t1", Title: "Draft"})

	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, c.out)
}

func TestClient_QueueFullDropsInsteadOfBlocking(t *testing.T) {
	c := NewClient(ClientOptions{URL: "ws://127.0.0.1:1/ws"})
	c.setState(Connected)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sendQueueSize+10; i++ {
			c.Notify(model.UpdateUpdate, model.Task{ID: "t1", Title: "Draft"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	assert.Len(t, c.out, sendQueueSize)
}

func TestClient_FrameQueuedForEarlierConnectionIsNotSent(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	srv := httptest.NewServer(NewRouter(hub, ""))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	listener, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	c := NewClient(ClientOptions{URL: url, RetryDelay: 10 * time.Millisecond})
	stale, err := Encode(model.NewTaskUpdate(model.UpdateAdd, model.Task{ID: "stale", Title: "Lost"}, time.Now()))
	require.NoError(t, err)
	c.out <- outbound{gen: c.gen.Load(), data: stale}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	require.Eventually(t, func() bool { return c.State() == Connected && hub.Clients() == 2 },
		time.Second, 5*time.Millisecond)

	// Act
	c.Notify(model.UpdateAdd, model.Task{ID: "fresh", Title: "Kept"})

	// Assert
	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := listener.ReadMessage()
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Task.ID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClient_ReceiveFansOutToEverySubscriber(t *testing.T) {
	c := NewClient(ClientOptions{URL: "ws://127.0.0.1:1/ws"})
	var first, second []string
	c.Subscribe(func(u model.TaskUpdate) { first = append(first, u.Task.ID) })
	c.Subscribe(func(u model.TaskUpdate) { second = append(second, u.Task.ID) })

	c.receive(model.NewTaskUpdate(model.UpdateUpdate, model.Task{ID: "t1", Title: "Draft"},
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"t1"}, first)
	assert.Equal(t, []string{"t1"}, second)
	at, ok := c.LastUpdate()
	assert.True(t, ok)
	assert.True(t, at.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
}
