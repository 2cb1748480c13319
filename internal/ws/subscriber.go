package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

// Subscriber is one live connection. Outbound messages are queued on send
// and written by writePump, the connection's only writer. done is closed
// exactly once when the subscriber is torn down; the send channel itself is
// never closed, so concurrent enqueues can't panic.
type Subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSubscriber(conn *websocket.Conn) *Subscriber {
	return &Subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue queues payload for delivery without blocking. It reports false if
// the subscriber is torn down or its buffer is full.
func (s *Subscriber) enqueue(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- payload:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// writePump drains the send queue onto the wire. A write error tears the
// subscriber down; the read side and the hub notice via done.
func (s *Subscriber) writePump() {
	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *Subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}
