// Package domain contains core concepts of the chat relay.
// This file defines the per-connection identity used to suppress self-echo.
// No runtime, network, or UI logic should be added here.
package domain

import "github.com/google/uuid"

// ConnectionID is an opaque tag assigned to one accepted socket.
// It lives as long as the TCP connection and is never reused.
type ConnectionID string

// NewConnectionID is called once per accepted socket.
// A random UUID rather than the remote address keeps two simultaneous
// accepts from the same peer distinct.
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

func (id ConnectionID) String() string { return string(id) }

// Short returns the first 8 characters, enough for log lines.
func (id ConnectionID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
