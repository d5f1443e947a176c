package main

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// rowStreamer fans out completed output bytes (the SYNC marker, the
// descriptor, and every RGB row) to connected websocket clients, mirroring
// the mutex-guarded client-map/broadcast shape of the teacher's
// kiwi_websocket.go and chat_websocket.go handlers.
type rowStreamer struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *log.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func newRowStreamer(logger *log.Logger) *rowStreamer {
	return &rowStreamer{clients: make(map[*websocket.Conn]struct{}), logger: logger}
}

func (s *rowStreamer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[SSTV] websocket upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Clients don't send anything meaningful; read until they disconnect
	// so gorilla's pong/close handling keeps running.
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *rowStreamer) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// broadcast sends p (a binary frame: marker, descriptor, or one output row)
// to every connected client, dropping any that error.
func (s *rowStreamer) broadcast(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if err := c.WriteMessage(websocket.BinaryMessage, p); err != nil {
			delete(s.clients, c)
			c.Close()
		}
	}
}

func (s *rowStreamer) serve(listen string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sstv", s.handleWS)
	s.logger.Printf("[SSTV] websocket stream listening on %s/sstv", listen)
	if err := http.ListenAndServe(listen, mux); err != nil {
		s.logger.Printf("[SSTV] websocket server error: %v", err)
	}
}
