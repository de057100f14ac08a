package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds what a subscriber may send us
	maxMessageSize = 4 * 1024
)

// Subscriber receives every event broadcast after it registered.
type Subscriber struct {
	hub  *Hub
	send chan []byte
}

// Events returns the subscriber's queue. It is closed when the subscriber
// is dropped or the hub stops.
func (s *Subscriber) Events() <-chan []byte {
	return s.send
}

// Close unregisters the subscriber.
func (s *Subscriber) Close() {
	select {
	case s.hub.unregister <- s:
	case <-s.hub.done:
	}
}

// Serve pumps events to a websocket connection until either side closes.
// Call it from a fiber websocket handler; it blocks.
func (h *Hub) Serve(conn *websocket.Conn) {
	s := h.Subscribe()
	if s == nil {
		conn.Close()
		return
	}
	go s.writePump(conn)
	s.readPump(conn)
}

// readPump only detects disconnection and handles pongs.
func (s *Subscriber) readPump(conn *websocket.Conn) {
	defer func() {
		s.Close()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer on the connection.
func (s *Subscriber) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
