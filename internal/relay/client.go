package relay

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"taskcrafter/internal/model"
)

var ErrRetriesExhausted = errors.New("relay: reconnect attempts exhausted")

type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

type ClientOptions struct {
	URL string
	// MaxRetries is the number of consecutive failed attempts tolerated
	// after the first one before Run gives up.
	MaxRetries int
	RetryDelay time.Duration
	Dialer     *websocket.Dialer
	Header     http.Header
}

// Client keeps a connection to the relay server and exchanges task updates
// over it. Sending never blocks the caller.
type Client struct {
	opts  ClientOptions
	now   func() time.Time
	state atomic.Int32
	// gen numbers connections; frames queued for an older one are never sent.
	gen atomic.Uint64
	out chan outbound

	mu         sync.Mutex
	subs       []func(model.TaskUpdate)
	lastUpdate time.Time
}

type outbound struct {
	gen  uint64
	data []byte
}

func NewClient(opts ClientOptions) *Client {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Client{
		opts: opts,
		now:  time.Now,
		out:  make(chan outbound, sendQueueSize),
	}
}

func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) setState(s State) {
	c.state.Store(int32(s))
}

// LastUpdate reports when the most recent remote update was stamped.
func (c *Client) LastUpdate() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdate, !c.lastUpdate.IsZero()
}

// Subscribe registers fn to receive every remote update. fn runs on the
// client's read goroutine and must not block for long.
func (c *Client) Subscribe(fn func(model.TaskUpdate)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Notify sends a task change to the relay. It is dropped when the client is
// not connected or its outbound queue is full.
func (c *Client) Notify(kind model.UpdateKind, task model.Task) {
	gen := c.gen.Load()
	if c.State() != Connected {
		return
	}
	data, err := Encode(model.NewTaskUpdate(kind, task, c.now()))
	if err != nil {
		log.Printf("⚠️  Failed to encode %s update for %s: %v", kind, task.ID, err)
		return
	}
	select {
	case c.out <- outbound{gen: gen, data: data}:
	default:
		log.Printf("⚠️  Relay queue full, dropping %s update for %s", kind, task.ID)
	}
}

// Run connects and reconnects until ctx is cancelled or the retry budget
// is spent. Cancellation is not an error.
func (c *Client) Run(ctx context.Context) error {
	defer c.setState(Disconnected)

	failures := 0
	for {
		c.setState(Connecting)
		conn, _, err := c.opts.Dialer.DialContext(ctx, c.opts.URL, c.opts.Header)
		if err != nil {
			c.setState(Disconnected)
			if ctx.Err() != nil {
				return nil
			}
			failures++
			if failures > c.opts.MaxRetries {
				log.Printf("❌ Relay unreachable after %d attempts: %v", failures, err)
				return ErrRetriesExhausted
			}
			log.Printf("⚠️  Relay connect failed (attempt %d): %v", failures, err)
		} else {
			failures = 0
			gen := c.gen.Add(1)
			c.setState(Connected)
			log.Printf("✅ Connected to relay at %s", c.opts.URL)
			c.serve(ctx, conn, gen)
			c.setState(Disconnected)
			c.discardPending()
			if ctx.Err() != nil {
				return nil
			}
			log.Println("👋 Relay connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.opts.RetryDelay):
		}
	}
}

// serve pumps outbound frames until the connection breaks or ctx ends.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn, gen uint64) {
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		c.readLoop(conn)
	}()

	defer func() {
		conn.Close()
		<-readDone
	}()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-readDone:
			return
		case f := <-c.out:
			if f.gen != gen {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, f.data); err != nil {
				log.Printf("⚠️  Relay write failed: %v", err)
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		u, err := Decode(data)
		if err != nil {
			log.Printf("⚠️  Ignoring relay frame: %v", err)
			continue
		}
		c.receive(u)
	}
}

func (c *Client) receive(u model.TaskUpdate) {
	at, err := time.Parse(time.RFC3339Nano, u.Timestamp)
	if err != nil {
		at = c.now()
	}

	c.mu.Lock()
	c.lastUpdate = at
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}

// discardPending drops frames queued for a connection that no longer exists.
func (c *Client) discardPending() {
	for {
		select {
		case <-c.out:
		default:
			return
		}
	}
}
