package server

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/view"
)

// Server streams live layouts of the note graph to websocket clients.
// Every client owns a view.Session; the hub only tracks membership and
// fans out broadcasts.
type Server struct {
	db            *sql.DB
	store         *graph.Store
	builder       *graph.Builder
	configWatcher *am.ConfigWatcher // nil when no config file is in use

	clients    map[*Client]bool
	broadcast  chan interface{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// guarded by mu, replaced on config reload
	cfg               *am.Config
	opts              view.Options
	allowedOrigins    []string
	maxClients        int
	neighborhoodDepth int

	verbosity  atomic.Int32
	graphLimit atomic.Int32
	logger     *zap.SugaredLogger

	httpServer *http.Server
	mux        *http.ServeMux

	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
	frameDrops     atomic.Int64
	state          atomic.Int32
}

// New creates a server over db. cfg supplies the layout, view and server
// settings; verbosity is the -v count (0-4).
func New(db *sql.DB, cfg *am.Config, verbosity int, log *zap.SugaredLogger) (*Server, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if verbosity < 0 || verbosity > 4 {
		return nil, errors.Newf("verbosity must be 0-4, got %d", verbosity)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if log == nil {
		log = logger.Logger
	}

	store := graph.NewStore(db, log)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		db:         db,
		store:      store,
		builder:    graph.NewBuilder(store, verbosity, log),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan interface{}, MaxClientMessageQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log.Named("server"),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.verbosity.Store(int32(verbosity))
	s.applyConfig(cfg)
	s.state.Store(int32(ServerStateRunning))
	s.mux = s.setupHTTPRoutes()
	return s, nil
}

// applyConfig copies the settings the server reads at runtime out of cfg
func (s *Server) applyConfig(cfg *am.Config) {
	opts := view.OptionsFromConfig(cfg)
	opts.Verbosity = int(s.verbosity.Load())

	s.mu.Lock()
	s.cfg = cfg
	s.opts = opts
	s.allowedOrigins = cfg.GetServerAllowedOrigins()
	s.maxClients = cfg.Server.MaxClients
	s.neighborhoodDepth = cfg.Graph.NeighborhoodDepth
	s.mu.Unlock()

	s.graphLimit.Store(int32(cfg.Graph.Limit))
}

// sessionOptions returns the options new sessions start with
func (s *Server) sessionOptions() view.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Store returns the graph store backing the server
func (s *Server) Store() *graph.Store { return s.store }

// Handler returns the server's HTTP routes
func (s *Server) Handler() http.Handler { return s.mux }

// ClientCount returns the number of registered clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// handleClientRegister handles a new client connection
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	limit := s.maxClients
	if limit > 0 && len(s.clients) >= limit {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", limit,
		)
		client.reject(ErrMaxClients)
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	s.mu.Unlock()

	if logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputClientStatus) {
		s.logger.Infow("Client connected",
			logger.FieldClientID, client.id,
			"total_clients", total,
		)
	}
}

// handleClientUnregister handles a client disconnection
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	if ok && logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputClientStatus) {
		s.logger.Infow("Client disconnected",
			logger.FieldClientID, client.id,
			"total_clients", total,
		)
	}
}

// removeSlowClient drops a client whose queue is full during a broadcast
func (s *Server) removeSlowClient(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	s.mu.Unlock()

	client.close()
	s.logger.Warnw("Client send channel full, removing client",
		logger.FieldClientID, client.id,
		"total_drops", s.broadcastDrops.Load(),
	)
}

// handleBroadcast sends msg to every client
func (s *Server) handleBroadcast(msg interface{}) {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if client.enqueue(msg) != nil {
			s.broadcastDrops.Add(1)
			s.removeSlowClient(client)
		}
	}
}

// broadcastMessage queues msg for every client via the hub.
// It returns false if the broadcast queue is full or the server is stopping.
func (s *Server) broadcastMessage(msg interface{}) bool {
	select {
	case s.broadcast <- msg:
		return true
	case <-s.ctx.Done():
		return false
	default:
		s.broadcastDrops.Add(1)
		s.logger.Warnw("Broadcast queue full, dropping message")
		return false
	}
}

// Run starts the server hub event loop
func (s *Server) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case msg := <-s.broadcast:
			s.handleBroadcast(msg)
		}
	}
}
