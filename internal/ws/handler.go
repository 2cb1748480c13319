package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"bistro/internal/model"
)

// OrderLister provides the snapshot sent to a freshly connected subscriber.
type OrderLister interface {
	List(ctx context.Context) ([]model.Order, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin dashboards are expected; the HTTP API is equally open.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// OrdersHandler upgrades the connection, registers it with the hub, sends
// the initial order snapshot and then echoes inbound text frames until the
// client goes away. Disconnects are normal, not errors.
func OrdersHandler(hub *Hub, lister OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}

		sub := newSubscriber(conn)
		hub.Register(sub)
		go sub.writePump()
		defer func() {
			hub.Unregister(sub)
			slog.Info("websocket client disconnected", "active", hub.Count())
		}()

		slog.Info("websocket client connected", "active", hub.Count())

		orders, err := lister.List(r.Context())
		if err != nil {
			slog.Error("initial snapshot failed", "error", err)
			return
		}
		payload, err := json.Marshal(initialMessage{Type: "initial", Orders: orders})
		if err != nil {
			slog.Error("marshal initial message", "error", err)
			return
		}
		if !sub.enqueue(payload) {
			return
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			echo, err := json.Marshal(echoMessage{Type: "echo", Message: string(data)})
			if err != nil {
				slog.Error("marshal echo message", "error", err)
				continue
			}
			if !sub.enqueue(echo) {
				return
			}
		}
	}
}
