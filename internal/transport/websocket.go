// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"voicegrade/internal/viz"
)

// WebSocketSink broadcasts visualization frames as JSON to all
// connected clients on /viz. Magnitudes are base64-encoded by the
// standard JSON encoding of byte slices.
type WebSocketSink struct {
	log       zerolog.Logger
	upgrader  websocket.Upgrader
	server    *http.Server
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
}

type wsFrame struct {
	Seq        uint64 `json:"seq"`
	Magnitudes []byte `json:"magnitudes"`
}

// NewWebSocketSink starts an HTTP server on addr serving the frame
// websocket. The server runs until Close.
func NewWebSocketSink(addr string, log zerolog.Logger) *WebSocketSink {
	s := &WebSocketSink{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local visualization clients only
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/viz", s.handleWebSocket)
	s.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info().Str("addr", addr).Msg("frame websocket listening")
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("frame websocket server error")
		}
	}()

	return s
}

func (s *WebSocketSink) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	total := len(s.clients)
	s.clientsMu.Unlock()
	s.log.Debug().Int("clients", total).Msg("visualization client connected")

	// Drain reads to detect disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.clientsMu.Lock()
				delete(s.clients, conn)
				s.clientsMu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// SendFrame broadcasts the frame to all connected clients. Clients
// that fail to write are dropped.
func (s *WebSocketSink) SendFrame(frame viz.Frame) error {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if len(s.clients) == 0 {
		return nil
	}

	data, err := json.Marshal(wsFrame{Seq: frame.Seq, Magnitudes: frame.Magnitudes})
	if err != nil {
		return err
	}

	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(s.clients, client)
		}
	}
	return nil
}

// Close disconnects all clients and shuts down the HTTP server.
func (s *WebSocketSink) Close() error {
	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.clientsMu.Unlock()

	return s.server.Close()
}

var _ viz.FrameSink = (*WebSocketSink)(nil)
