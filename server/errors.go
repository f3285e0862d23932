package server

import "github.com/teranos/nodegraph/errors"

// Sentinel errors for common cases.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrMaxClients indicates the connection was refused because the server is full
	ErrMaxClients = errors.New("max clients reached")

	// ErrDraining indicates the server is shutting down and accepts no new work
	ErrDraining = errors.New("server is draining")

	// ErrUnknownMessage indicates a websocket message type the server does not handle
	ErrUnknownMessage = errors.New("unknown message type")

	// ErrRateLimited indicates a client sent messages faster than allowed
	ErrRateLimited = errors.New("message rate exceeded")
)

var (
	errClientClosed  = errors.New("client closed")
	errSendQueueFull = errors.New("client send queue full")
)
