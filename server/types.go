package server

import (
	"time"

	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/view"
)

const (
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
	// ClientMessageRate bounds inbound websocket messages per second per client.
	// Pointer moves arrive at display rate, so the burst covers a few frames of them.
	ClientMessageRate  = 240
	ClientMessageBurst = 64
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// Inbound message types
const (
	MsgHello        = "hello"
	MsgLoad         = "load"
	MsgResize       = "resize"
	MsgPointerDown  = "pointer_down"
	MsgPointerMove  = "pointer_move"
	MsgPointerUp    = "pointer_up"
	MsgPointerLeave = "pointer_leave"
	MsgWheel        = "wheel"
	MsgZoom         = "zoom"
	MsgPing         = "ping"
)

// Outbound message types
const (
	MsgGraph      = "graph"
	MsgFrame      = "frame"
	MsgNodeSelect = "node_select"
	MsgError      = "error"
	MsgPong       = "pong"
	MsgRefresh    = "refresh"
)

// Zoom actions
const (
	ZoomIn    = "in"
	ZoomOut   = "out"
	ZoomReset = "reset"
	ZoomFit   = "fit"
)

// ClientMessage is any message a client sends; Type selects which fields apply.
type ClientMessage struct {
	Type      string   `json:"type"`
	Protocol  string   `json:"protocol,omitempty"`   // hello
	Query     string   `json:"query,omitempty"`      // load: filter query text
	Tags      []string `json:"tags,omitempty"`       // load: tag ids or names, joined with the query
	Focus     string   `json:"focus,omitempty"`      // load: detail view focus
	Depth     int      `json:"depth,omitempty"`      // load: neighborhood depth around focus
	Width     float64  `json:"width,omitempty"`      // resize
	Height    float64  `json:"height,omitempty"`     // resize
	PointerID int      `json:"pointer_id,omitempty"` // pointer_*
	X         float64  `json:"x,omitempty"`          // pointer_*, wheel
	Y         float64  `json:"y,omitempty"`          // pointer_*, wheel
	DeltaY    float64  `json:"delta_y,omitempty"`    // wheel
	Action    string   `json:"action,omitempty"`     // zoom: in, out, reset, fit
}

// HelloMessage is sent on connect and in answer to a client hello
type HelloMessage struct {
	Type      string `json:"type"`
	ClientID  string `json:"client_id"`
	Protocol  string `json:"protocol"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// GraphMessage carries the projected graph of a load
type GraphMessage struct {
	Type  string       `json:"type"`
	Graph *graph.Graph `json:"graph"`
}

// FrameMessage carries one rendered frame
type FrameMessage struct {
	Type  string      `json:"type"`
	Frame *view.Frame `json:"frame"`
}

// NodeSelectMessage reports a click on a node
type NodeSelectMessage struct {
	Type string     `json:"type"`
	Node graph.Node `json:"node"`
}

// ErrorMessage reports a failed request. Category and Subcategory come from
// the graph error taxonomy when available.
type ErrorMessage struct {
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Message     string `json:"message"`
	Detail      string `json:"detail,omitempty"`
}

// PongMessage answers a ping
type PongMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// RefreshMessage announces that the stored graph changed; a graph message
// for the client's last load follows
type RefreshMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Nodes  int    `json:"nodes,omitempty"`
	Tags   int    `json:"tags,omitempty"`
	Links  int    `json:"links,omitempty"`
}
