// Package domain contains core concepts of the chat relay.
// This file defines Message, the unit relayed between connections.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat line and its author connection.
type Message struct {
	ID        uuid.UUID // unique identifier
	Origin    ConnectionID
	Content   string
	CreatedAt time.Time
}

func NewMessage(origin ConnectionID, content string) Message {
	return Message{
		ID:        uuid.New(),
		Origin:    origin,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// IsFrom reports whether the message was published by the given connection.
func (m Message) IsFrom(id ConnectionID) bool {
	return m.Origin == id
}
