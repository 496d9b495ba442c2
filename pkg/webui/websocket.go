package webui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readLimit     = 64 * 1024
	heartbeatWait = 60 * time.Second
	pingPeriod    = heartbeatWait * 9 / 10
	writeWait     = 10 * time.Second
)

// SafeConn wraps a websocket connection with a write mutex
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON writes v unless the connection has been closed
func (sc *SafeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	if sc.closed {
		return nil
	}
	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// handleWebSocket subscribes the caller to their events and forwards every
// event to the socket until either side goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, err := s.auth.Authorize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Logf("WebSocket upgrade error: %v", err)
		return
	}
	safeConn := NewSafeConn(conn)
	defer safeConn.Close()

	sessionID, eventCh := s.hub.Subscribe(id.UserID)
	defer s.hub.Unsubscribe(id.UserID, sessionID)

	s.connections.Store(conn, &ConnectionInfo{SessionID: sessionID, UserID: id.UserID, ConnectedAt: time.Now()})
	defer s.connections.Delete(conn)
	s.logger.Logf("WebSocket client connected: %s (user %s)", sessionID, id.UserID)

	_ = safeConn.WriteJSON(map[string]interface{}{
		"type": "connection_status",
		"data": map[string]interface{}{"connected": true, "session_id": sessionID},
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readLoop(conn, safeConn, sessionID)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.logger.Logf("WebSocket %s ping failed: %v", sessionID, err)
				return
			}
		case ev, ok := <-eventCh:
			if !ok {
				return
			}
			if err := safeConn.WriteJSON(ev); err != nil {
				s.logger.Logf("WebSocket %s write error: %v", sessionID, err)
				return
			}
		}
	}
}

// readLoop answers application pings until the client goes away or misses
// the heartbeat. Read errors are permanent, so any error ends the loop.
func (s *Server) readLoop(conn *websocket.Conn, safeConn *SafeConn, sessionID string) {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(heartbeatWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(heartbeatWait))
	})

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Logf("WebSocket %s closed: %v", sessionID, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(heartbeatWait))

		if msgType, _ := msg["type"].(string); msgType == "ping" {
			_ = safeConn.WriteJSON(map[string]interface{}{
				"type": "pong",
				"data": map[string]interface{}{"timestamp": time.Now().Unix()},
			})
		}
	}
}
