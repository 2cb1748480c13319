package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"bistro/internal/storage"
	"bistro/internal/ws"
)

type debugServerInfo struct {
	Host    string      `json:"host"`
	Port    string      `json:"port"`
	Headers http.Header `json:"headers"`
}

type debugDatabaseInfo struct {
	URI       string `json:"uri"`
	Connected bool   `json:"connected"`
}

type debugResponse struct {
	Server               debugServerInfo   `json:"server"`
	WebsocketConnections int               `json:"websocket_connections"`
	Database             debugDatabaseInfo `json:"database"`
}

// DebugHandler reports live connection count and store connectivity.
// Diagnostic glue only; nothing in here is a contract.
func DebugHandler(hub *ws.Hub, store storage.OrderStore, databaseURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, port, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		resp := debugResponse{
			Server: debugServerInfo{
				Host:    host,
				Port:    port,
				Headers: r.Header,
			},
			WebsocketConnections: hub.Count(),
			Database: debugDatabaseInfo{
				URI:       databaseURI,
				Connected: store.Ping(r.Context()) == nil,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
