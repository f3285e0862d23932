package server

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kballard/go-shellquote"
	"golang.org/x/time/rate"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/graph"
	grapherr "github.com/teranos/nodegraph/graph/error"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/version"
	"github.com/teranos/nodegraph/view"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client represents a WebSocket client connection and its layout session
type Client struct {
	server  *Server
	conn    *websocket.Conn
	send    chan interface{}
	id      string
	session *view.Session
	limiter *rate.Limiter

	mu       sync.RWMutex
	closed   bool
	lastLoad *ClientMessage // rerun by reload
	protocol string
}

// newClient creates a client with its own controller and session. Frames
// and node selections are queued on send.
func newClient(s *Server, conn *websocket.Conn, id string) *Client {
	c := &Client{
		server:  s,
		conn:    conn,
		send:    make(chan interface{}, MaxClientMessageQueueSize),
		id:      id,
		limiter: rate.NewLimiter(ClientMessageRate, ClientMessageBurst),
	}

	sessionLog := logger.FromContext(s.logger, logger.WithSessionID(s.ctx, id))
	ctrl := view.NewController(s.sessionOptions(), sessionLog)
	ctrl.OnNodeSelect(func(n graph.Node) {
		_ = c.enqueue(NodeSelectMessage{Type: MsgNodeSelect, Node: n})
	})
	c.session = view.NewSession(id, ctrl, c.sendFrame, sessionLog)

	if s.configWatcher != nil {
		release := s.configWatcher.OnReload(func(cfg *am.Config) error {
			opts := view.OptionsFromConfig(cfg)
			opts.Verbosity = int(s.verbosity.Load())
			c.session.Apply(opts)
			return nil
		})
		c.session.AddSubscription(release)
	}
	return c
}

// enqueue queues msg for the write pump without blocking
func (c *Client) enqueue(msg interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return errSendQueueFull
	}
}

// sendFrame is the session's frame sink. A full queue drops the frame; the
// next one supersedes it.
func (c *Client) sendFrame(f *view.Frame) {
	if err := c.enqueue(FrameMessage{Type: MsgFrame, Frame: f}); errors.Is(err, errSendQueueFull) {
		c.server.frameDrops.Add(1)
		if logger.ShouldOutput(int(c.server.verbosity.Load()), logger.OutputFrames) {
			c.server.logger.Debugw("Dropped frame", logger.FieldClientID, c.id, logger.FieldGeneration, f.Generation)
		}
	}
}

// sendJSON is a helper to send a message to the client, logging a full queue
func (c *Client) sendJSON(msg interface{}) {
	if err := c.enqueue(msg); errors.Is(err, errSendQueueFull) {
		c.server.logger.Warnw("Failed to queue message (channel full)",
			logger.FieldClientID, c.id,
		)
	}
}

// sendError reports err to the client as an error message
func (c *Client) sendError(err error) {
	c.sendJSON(errorMessage(err))
}

// errorMessage maps err onto an ErrorMessage, keeping the graph error taxonomy
func errorMessage(err error) ErrorMessage {
	var ge *grapherr.GraphError
	if errors.As(err, &ge) {
		msg := ErrorMessage{
			Type:        MsgError,
			Category:    ge.Category.String(),
			Subcategory: ge.Subcategory,
			Message:     ge.ToUIMessage(),
		}
		if ge.Err != nil {
			msg.Detail = ge.Err.Error()
		}
		return msg
	}
	return ErrorMessage{
		Type:     MsgError,
		Category: grapherr.CategoryInternal.String(),
		Message:  err.Error(),
	}
}

// reject tells the client why it is being dropped and closes it
func (c *Client) reject(err error) {
	_ = c.enqueue(errorMessage(grapherr.New(grapherr.CategoryWebSocket, err, "Connection refused").
		WithSubcategory(grapherr.SubcategoryWSProtocol)))
	c.close()
}

// close stops the session and closes the send queue. Safe to call twice.
func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	c.session.Close()
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
			c.close()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("Read pump started", logger.FieldClientID, c.id)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(grapherr.New(grapherr.CategoryWebSocket, err, "Malformed message").
				WithSubcategory(grapherr.SubcategoryWSMessage))
			continue
		}

		// releases always pass so a drag cannot outlive its pointer
		if !releasesPointer(msg.Type) && !c.limiter.Allow() {
			// pointer moves are superseded by the next one
			if msg.Type != MsgPointerMove {
				c.sendError(grapherr.New(grapherr.CategoryWebSocket, ErrRateLimited, "Too many messages").
					WithSubcategory(grapherr.SubcategoryWSRate).
					WithContext("type", msg.Type))
			}
			continue
		}

		if logger.ShouldOutput(int(c.server.verbosity.Load()), logger.OutputWSMessages) {
			c.server.logger.Debugw("Received WebSocket message",
				logger.FieldClientID, c.id,
				"type", msg.Type,
				"size_bytes", len(data),
			)
		}

		c.routeMessage(&msg)
	}
}

// releasesPointer reports whether msgType ends a drag or pan
func releasesPointer(msgType string) bool {
	return msgType == MsgPointerUp || msgType == MsgPointerLeave
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
		websocket.CloseNormalClosure,
	) {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"WebSocket connection closed unexpectedly",
		).WithSubcategory(grapherr.SubcategoryWSRead)

		c.server.logger.Warnw("WebSocket read error",
			append(graphErr.ToLogFields(), logger.FieldClientID, c.id)...,
		)
	}
}

// routeMessage dispatches incoming WebSocket messages to the session
func (c *Client) routeMessage(msg *ClientMessage) {
	switch msg.Type {
	case MsgHello:
		c.handleHello(msg.Protocol)
	case MsgLoad:
		c.handleLoad(msg)
	case MsgResize:
		c.handleResize(msg.Width, msg.Height)
	case MsgPointerDown:
		id, x, y := msg.PointerID, msg.X, msg.Y
		c.session.Submit(func(ctrl *view.Controller) { ctrl.PointerDown(id, x, y) })
	case MsgPointerMove:
		id, x, y := msg.PointerID, msg.X, msg.Y
		c.session.Submit(func(ctrl *view.Controller) { ctrl.PointerMove(id, x, y) })
	case MsgPointerUp:
		id, x, y := msg.PointerID, msg.X, msg.Y
		c.session.Submit(func(ctrl *view.Controller) { ctrl.PointerUp(id, x, y) })
	case MsgPointerLeave:
		c.session.Submit(func(ctrl *view.Controller) { ctrl.PointerLeave() })
	case MsgWheel:
		x, y, dy := msg.X, msg.Y, msg.DeltaY
		c.session.Submit(func(ctrl *view.Controller) { ctrl.Wheel(x, y, dy) })
	case MsgZoom:
		c.handleZoom(msg.Action)
	case MsgPing:
		c.sendJSON(PongMessage{Type: MsgPong, Timestamp: time.Now().UnixMilli()})
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			logger.FieldClientID, c.id,
		)
		c.sendError(grapherr.New(grapherr.CategoryWebSocket, ErrUnknownMessage, "").
			WithSubcategory(grapherr.SubcategoryWSMessage).
			WithContext("type", msg.Type))
	}
}

// handleHello checks the client's protocol version and answers with ours.
// An incompatible client is dropped.
func (c *Client) handleHello(protocol string) {
	if err := version.Compatible(protocol); err != nil {
		c.server.logger.Warnw("Incompatible client protocol",
			logger.FieldClientID, c.id,
			"protocol", protocol,
			"server_protocol", version.ProtocolVersion,
		)
		c.reject(err)
		return
	}
	c.mu.Lock()
	c.protocol = protocol
	c.mu.Unlock()
	c.sendJSON(c.helloMessage())
}

func (c *Client) helloMessage() HelloMessage {
	info := version.Get()
	return HelloMessage{
		Type:      MsgHello,
		ClientID:  c.id,
		Protocol:  version.ProtocolVersion,
		Version:   info.Version,
		Commit:    info.Short(),
		BuildTime: info.BuildTime,
	}
}

// handleLoad builds the requested graph, sends it, and hands it to the
// session. A failed build still loads the empty error graph so the view
// clears.
func (c *Client) handleLoad(msg *ClientMessage) {
	load := *msg
	c.mu.Lock()
	c.lastLoad = &load
	c.mu.Unlock()

	g, err := c.server.buildGraph(c.server.ctx, &load)
	if err != nil {
		c.sendError(err)
	}
	c.sendJSON(GraphMessage{Type: MsgGraph, Graph: g})
	c.session.Load(g)
}

// reload reruns the last load, if any
func (c *Client) reload() {
	c.mu.RLock()
	last := c.lastLoad
	c.mu.RUnlock()
	if last == nil {
		return
	}
	c.handleLoad(last)
}

func (c *Client) handleResize(width, height float64) {
	if width <= 0 || height <= 0 {
		c.sendError(grapherr.Newf(grapherr.CategoryLayout, "Viewport must have a positive size",
			"invalid viewport %gx%g", width, height).
			WithSubcategory(grapherr.SubcategoryLayoutViewport))
		return
	}
	c.session.Submit(func(ctrl *view.Controller) { ctrl.Resize(width, height) })
}

func (c *Client) handleZoom(action string) {
	var fn func(*view.Controller)
	switch action {
	case ZoomIn:
		fn = (*view.Controller).ZoomIn
	case ZoomOut:
		fn = (*view.Controller).ZoomOut
	case ZoomReset:
		fn = (*view.Controller).ResetZoom
	case ZoomFit:
		fn = (*view.Controller).FitToView
	default:
		c.sendError(grapherr.Newf(grapherr.CategoryWebSocket, "Unknown zoom action",
			"unknown zoom action %q", action).
			WithSubcategory(grapherr.SubcategoryWSMessage))
		return
	}
	c.session.Submit(fn)
}

// writePump writes queued messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("Write pump started", logger.FieldClientID, c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			c.server.logger.Debugw("Write pump stopping due to server shutdown", logger.FieldClientID, c.id)
			return
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				graphErr := grapherr.New(
					grapherr.CategoryWebSocket,
					err,
					"Failed to send message to client",
				).WithSubcategory(grapherr.SubcategoryWSWrite)

				c.server.logger.Warnw("Message write error",
					append(graphErr.ToLogFields(), logger.FieldClientID, c.id)...,
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// buildGraph resolves a load request. A bare focus asks for the detail
// view's local graph; anything else goes through the filter query.
func (s *Server) buildGraph(ctx context.Context, msg *ClientMessage) (*graph.Graph, error) {
	limit := int(s.graphLimit.Load())
	if msg.Focus != "" && strings.TrimSpace(msg.Query) == "" && len(msg.Tags) == 0 {
		depth := msg.Depth
		if depth <= 0 {
			s.mu.RLock()
			depth = s.neighborhoodDepth
			s.mu.RUnlock()
		}
		return s.builder.BuildLocal(ctx, msg.Focus, depth, limit)
	}
	return s.builder.BuildFromQuery(ctx, loadQuery(msg), limit)
}

// loadQuery folds a load's structured fields into filter query text
func loadQuery(msg *ClientMessage) string {
	var args []string
	for _, t := range msg.Tags {
		args = append(args, "tag:"+t)
	}
	if msg.Focus != "" {
		args = append(args, "focus:"+msg.Focus)
	}
	if msg.Depth > 0 {
		args = append(args, "depth:"+strconv.Itoa(msg.Depth))
	}
	if len(args) == 0 {
		return msg.Query
	}
	return strings.TrimSpace(msg.Query + "\n" + shellquote.Join(args...))
}
