// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// FeedMessage is one live-feed frame: the full state of a game after a
// mutation. The feed is one-directional; clients never send actions.
type FeedMessage struct {
	Type string `json:"type"`
	Game *Game  `json:"game"`
}

const msgTypeGameUpdate = "GAME_UPDATE"

// feedClient is one spectator connection.
type feedClient struct {
	conn   *websocket.Conn
	gameID string
	send   chan []byte
}

// FeedHub fans a game's post-mutation state out to its spectators.
// Spectating is display only; the single scorekeeper writer goes through
// the App mutation entry points, never through the hub.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*feedClient]bool
	closed  bool
}

// NewFeedHub creates a FeedHub.
func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*feedClient]bool)}
}

// Broadcast sends the game's fresh state to every spectator of that
// game. Slow clients are dropped rather than blocking the scorekeeper.
func (h *FeedHub) Broadcast(g *Game) {
	msg, err := json.Marshal(FeedMessage{Type: msgTypeGameUpdate, Game: g})
	if err != nil {
		log.Printf("Warning: could not marshal feed message: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.gameID != g.ID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ConnectionCount returns the number of active spectator connections.
func (h *FeedHub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all spectators.
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// ServeWs upgrades the request and registers the connection as a
// spectator of one game.
func (h *FeedHub) ServeWs(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}
	client := &feedClient{conn: conn, gameID: gameID, send: make(chan []byte, 16)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client] = true
	h.mu.Unlock()

	go client.writePump()
	go client.readPump(h)
}

func (h *FeedHub) unregister(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards inbound frames; its job is pong handling and
// detecting the peer going away.
func (c *feedClient) readPump(h *FeedHub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
