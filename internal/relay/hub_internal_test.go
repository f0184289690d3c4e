package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestHub_DropsSlowPeer(t *testing.T) {
	hub := startHub(t)
	sender := &peer{id: "sender", send: make(chan []byte, 4)}
	slow := &peer{id: "slow", send: make(chan []byte, 1)}
	require.True(t, hub.join(sender))
	require.True(t, hub.join(slow))
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 5*time.Millisecond)

	hub.publish(frame{from: sender, data: []byte("one")})
	hub.publish(frame{from: sender, data: []byte("two")})
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	first, ok := <-slow.send
	assert.True(t, ok)
	assert.Equal(t, []byte("one"), first)
	_, ok = <-slow.send
	assert.False(t, ok, "slow peer queue should be closed")
	assert.Empty(t, sender.send, "sender never receives its own frames")
}

func TestHub_CancelDropsEveryone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	p := &peer{id: "p", send: make(chan []byte, 1)}
	require.True(t, hub.join(p))
	cancel()

	_, ok := <-p.send
	assert.False(t, ok)
	assert.False(t, hub.join(&peer{id: "late", send: make(chan []byte, 1)}))
}
