// Package domain contains core concepts of the chat system.
// This file defines Message values and related rules.
// Messages are immutable once the store has assigned their identifier.
package domain

import "time"

// Kind discriminates what a message body carries.
type Kind string

const (
	KindText   Kind = "text"
	KindFile   Kind = "file"
	KindSystem Kind = "system"
)

// KindFromString maps a client-supplied type string to a Kind,
// defaulting to text for anything unknown.
func KindFromString(s string) Kind {
	switch Kind(s) {
	case KindFile:
		return KindFile
	case KindSystem:
		return KindSystem
	default:
		return KindText
	}
}

// Message represents an immutable chat event.
//
// ID is assigned by the message store at insertion, strictly increasing and
// unique across all rooms; it is never client-supplied. Room never changes
// after creation. ReadCount and Reactions are aggregates annotated at read
// time; within a process lifetime they only ever grow.
type Message struct {
	ID        int64
	Author    string
	Body      string
	Room      string
	Kind      Kind
	FileRef   string // opaque reference handed through unchanged
	At        time.Time
	ReadCount int
	Reactions []string // distinct emoji, ordered by first attachment
}
