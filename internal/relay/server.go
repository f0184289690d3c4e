package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"taskcrafter/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

type peer struct {
	id   string
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte
}

// NewRouter exposes the hub over websocket at /ws. Browser connections are
// accepted only from clientOrigin; requests without an Origin header pass.
func NewRouter(hub *Hub, clientOrigin string) *mux.Router {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == clientOrigin
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWS(hub, upgrader, w, req)
	}).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"clients": hub.Clients(),
		})
	}).Methods(http.MethodGet)
	return r
}

func serveWS(hub *Hub, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("⚠️  Websocket upgrade failed: %v", err)
		return
	}

	p := &peer{
		id:   uuid.NewString(),
		hub:  hub,
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}
	if !hub.join(p) {
		ws.Close()
		return
	}

	go p.writePump()
	go p.readPump()
}

func (p *peer) readPump() {
	defer func() {
		p.hub.leave(p)
		p.ws.Close()
	}()

	p.ws.SetReadLimit(maxMessageSize)
	p.ws.SetReadDeadline(time.Now().Add(pongWait))
	p.ws.SetPongHandler(func(string) error {
		return p.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  Read from %s failed: %v", p.id, err)
			}
			return
		}
		if eventOf(data) != model.EventTaskUpdate {
			log.Printf("⚠️  Ignoring unknown frame from %s", p.id)
			continue
		}
		p.hub.publish(frame{from: p, data: data})
	}
}

func (p *peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.ws.Close()
	}()

	for {
		select {
		case data, ok := <-p.send:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
