package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/errors"
)

// upgrader creates a WebSocket upgrader with origin checking from config
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 8192,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the request origin against the configured allowed
// origins. Prefix matching allows any port.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Requests without an origin header come from non-browser clients
	if origin == "" {
		return true
	}

	s.mu.RLock()
	allowed := s.allowedOrigins
	s.mu.RUnlock()

	for _, prefix := range allowed {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close() // best-effort check, the real bind happens later
	return true
}

// findAvailablePort tries the requested port, then the default and fallback
// ports, then a small high range
func findAvailablePort(requestedPort int) (int, error) {
	if isPortAvailable(requestedPort) {
		return requestedPort, nil
	}

	for _, port := range []int{am.DefaultServerPort, am.FallbackServerPort} {
		if port != requestedPort && isPortAvailable(port) {
			return port, nil
		}
	}

	fallbackStart := 56787
	for i := 0; i < 10; i++ {
		if port := fallbackStart + i; isPortAvailable(port) {
			return port, nil
		}
	}

	return 0, errors.Newf("no available ports found (tried %d, %d, %d, and range 56787-56796)",
		requestedPort, am.DefaultServerPort, am.FallbackServerPort)
}
