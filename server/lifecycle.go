package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/sym"
)

// getState returns the current server state
func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// WatchConfig reloads settings when any of paths changes. Sessions created
// afterwards pick up new layout and view options live. Call before Start.
func (s *Server) WatchConfig(paths ...string) error {
	watcher, err := am.NewConfigWatcher(paths...)
	if err != nil {
		return errors.Wrap(err, "failed to create config watcher")
	}
	s.configWatcher = watcher
	am.SetGlobalWatcher(watcher)

	watcher.OnReload(func(cfg *am.Config) error {
		s.mu.RLock()
		oldDepth := s.neighborhoodDepth
		s.mu.RUnlock()
		oldLimit := int(s.graphLimit.Load())

		s.applyConfig(cfg)
		if logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputConfig) {
			s.logger.Infow("Config reloaded", "config", cfg.String())
		}

		if cfg.Graph.Limit != oldLimit || cfg.Graph.NeighborhoodDepth != oldDepth {
			s.RefreshAll()
		}
		return nil
	})

	watcher.Start()
	s.logger.Infow("Config watcher started", "paths", paths)
	return nil
}

// Start runs the hub and serves HTTP on port, or the next free port.
// It blocks until the server is stopped.
func (s *Server) Start(port int) error {
	actualPort, err := findAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort,
		)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", actualPort))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", actualPort)
	}
	return s.Serve(listener)
}

// Serve runs the hub and serves HTTP on listener until Stop
func (s *Server) Serve(listener net.Listener) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infow(fmt.Sprintf("%s Server ready", sym.Open),
		"url", fmt.Sprintf("http://%s", listener.Addr()),
		logger.FieldAddress, listener.Addr().String(),
	)

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop gracefully shuts down the server and cleans up resources
func (s *Server) Stop() error {
	if s.getState() != ServerStateRunning {
		return nil
	}
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = errors.Wrap(err, "http shutdown")
		}
	}

	// Close client connections BEFORE cancelling context so the pumps exit cleanly
	s.mu.Lock()
	clientsToClose := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clientsToClose = append(clientsToClose, client)
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if len(clientsToClose) > 0 {
		s.logger.Infow("Closing client connections", logger.FieldCount, len(clientsToClose))
		for _, client := range clientsToClose {
			client.close()
			client.conn.Close() // unblocks readPump
		}
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infow("All goroutines stopped cleanly")
	case <-ctx.Done():
		s.logger.Warnw("Goroutine shutdown timed out, forcing exit",
			"timeout", ShutdownTimeout,
		)
	}

	if s.configWatcher != nil {
		if err := s.configWatcher.Stop(); err != nil {
			s.logger.Warnw("Failed to stop config watcher", logger.FieldError, err)
		}
	}

	s.setState(ServerStateStopped)
	s.logger.Infow(fmt.Sprintf("%s Server shutdown complete", sym.Close),
		"broadcast_drops", s.broadcastDrops.Load(),
		"frame_drops", s.frameDrops.Load(),
	)
	return shutdownErr
}
