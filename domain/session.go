// Package domain contains core concepts of the chat system.
// This file defines the Session entity owned by the presence registry.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a live connection's authenticated state. Sessions are keyed by
// connection, not identity: one identity may hold several concurrent
// sessions (multi-device). Rooms and identities are referenced by value.
type Session struct {
	ConnID   uuid.UUID
	Identity string
	Room     string
	JoinedAt time.Time
}
