package relay

import (
	"context"
	"log"
	"sync/atomic"
)

const sendQueueSize = 256

type frame struct {
	from *peer
	data []byte
}

// Hub rebroadcasts frames from one peer to every other connected peer.
// It keeps no task state and no history.
type Hub struct {
	register   chan *peer
	unregister chan *peer
	broadcast  chan frame
	done       chan struct{}

	peers map[*peer]struct{}
	count atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *peer),
		unregister: make(chan *peer),
		broadcast:  make(chan frame, sendQueueSize),
		done:       make(chan struct{}),
		peers:      map[*peer]struct{}{},
	}
}

// Clients returns the number of connected peers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Run owns the peer set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for p := range h.peers {
				h.drop(p)
			}
			return
		case p := <-h.register:
			h.peers[p] = struct{}{}
			h.count.Store(int64(len(h.peers)))
			log.Printf("✅ Client connected: %s (%d online)", p.id, len(h.peers))
		case p := <-h.unregister:
			if _, ok := h.peers[p]; ok {
				h.drop(p)
				log.Printf("👋 Client disconnected: %s (%d online)", p.id, len(h.peers))
			}
		case f := <-h.broadcast:
			for p := range h.peers {
				if p == f.from {
					continue
				}
				select {
				case p.send <- f.data:
				default:
					// A full queue means the peer is not keeping up; cut it loose.
					h.drop(p)
					log.Printf("⚠️  Dropped slow client: %s", p.id)
				}
			}
		}
	}
}

func (h *Hub) drop(p *peer) {
	delete(h.peers, p)
	close(p.send)
	h.count.Store(int64(len(h.peers)))
}

func (h *Hub) join(p *peer) bool {
	select {
	case h.register <- p:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(p *peer) {
	select {
	case h.unregister <- p:
	case <-h.done:
	}
}

func (h *Hub) publish(f frame) {
	select {
	case h.broadcast <- f:
	case <-h.done:
	}
}
