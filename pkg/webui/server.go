// Package webui serves the HTTP API that accepts campaign jobs and the
// websocket endpoint that pushes their results to connected clients.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alantheprice/outreach/pkg/events"
	"github.com/alantheprice/outreach/pkg/service"
	"github.com/alantheprice/outreach/pkg/utils"
)

// ConnectionInfo stores metadata about a websocket connection
type ConnectionInfo struct {
	SessionID   string
	UserID      string
	ConnectedAt time.Time
}

// Submitter queues a job and acknowledges it.
type Submitter interface {
	Submit(ctx context.Context, job service.Job) (service.Ack, error)
}

// Server is the outreach HTTP server.
type Server struct {
	submitter   Submitter
	hub         *events.Hub
	auth        Authorizer
	port        int
	server      *http.Server
	upgrader    websocket.Upgrader
	connections sync.Map // map[*websocket.Conn]*ConnectionInfo
	isRunning   bool
	mutex       sync.RWMutex
	startTime   time.Time
	jobCount    atomic.Int64
	logger      *utils.Logger
}

// NewServer creates a server. A nil authorizer falls back to HeaderAuthorizer.
func NewServer(submitter Submitter, hub *events.Hub, auth Authorizer, port int, logger *utils.Logger) *Server {
	if port == 0 {
		port = 8080
	}
	if auth == nil {
		auth = HeaderAuthorizer{}
	}
	if logger == nil {
		logger = utils.DiscardLogger()
	}

	return &Server{
		submitter: submitter,
		hub:       hub,
		auth:      auth,
		port:      port,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
			},
		},
		startTime: time.Now(),
		logger:    logger,
	}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/campaign", s.handleAPICampaign)
	mux.HandleFunc("/api/campaign/regenerate", s.handleAPIRegenerate)
	mux.HandleFunc("/api/stats", s.handleAPIStats)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"port":   s.port,
			"uptime": time.Since(s.startTime).String(),
		})
	})
	return mux
}

// Start binds the port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.isRunning {
		s.mutex.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.mutex.Unlock()
		return utils.NewNetworkError("listen", fmt.Errorf("port %d: %w", s.port, err))
	}
	s.server = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.isRunning = true
	s.mutex.Unlock()

	go func() {
		s.logger.Logf("Outreach server listening on :%d", s.port)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.LogError(utils.NewNetworkError("serve", err))
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown closes every websocket and stops the server.
func (s *Server) Shutdown() error {
	s.mutex.Lock()
	if !s.isRunning {
		s.mutex.Unlock()
		return nil
	}
	s.isRunning = false
	s.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.connections.Range(func(conn, _ interface{}) bool {
		if wsConn, ok := conn.(*websocket.Conn); ok {
			wsConn.Close()
		}
		return true
	})

	return s.server.Shutdown(ctx)
}

// IsRunning returns true if the server is running
func (s *Server) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isRunning
}

// GetPort returns the port the server listens on
func (s *Server) GetPort() int {
	return s.port
}

func (s *Server) countConnections() int {
	count := 0
	s.connections.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CheckPortAvailable checks if a port is available to bind to
func CheckPortAvailable(port int) bool {
	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
