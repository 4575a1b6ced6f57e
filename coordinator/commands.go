package coordinator

import (
	"chathub/contract"
	"chathub/domain"

	"github.com/google/uuid"
)

// command is one serialized unit of work for the coordinator loop. Client
// events and internal storage completions share the queue, which is what
// preserves per-connection ordering while storage calls are in flight.
type command interface {
	connID() uuid.UUID
}

type registerCmd struct {
	conn     uuid.UUID
	username string
	password string
}

type joinCmd struct {
	conn     uuid.UUID
	username string
	password string
	room     string
}

type switchRoomCmd struct {
	conn uuid.UUID
	room string
}

type sendMessageCmd struct {
	conn    uuid.UUID
	body    string
	kind    domain.Kind
	fileRef string
}

type markReadCmd struct {
	conn      uuid.UUID
	messageID int64
}

type reactCmd struct {
	conn      uuid.UUID
	messageID int64
	emoji     string
}

type typingCmd struct {
	conn    uuid.UUID
	stopped bool
}

type disconnectCmd struct {
	conn uuid.UUID
}

// historyLoadedCmd completes the asynchronous history fetch started by a
// join or a room switch.
type historyLoadedCmd struct {
	conn     uuid.UUID
	username string
	room     string
	isSwitch bool
	token    string
	messages []domain.Message
	err      error
}

// messageStoredCmd completes an asynchronous append.
type messageStoredCmd struct {
	conn uuid.UUID
	msg  domain.Message
	err  error
}

// readRecordedCmd completes an asynchronous read-receipt insert.
type readRecordedCmd struct {
	conn      uuid.UUID
	username  string
	messageID int64
	result    contract.ReadResult
	err       error
}

// reactionRecordedCmd completes an asynchronous reaction upsert.
type reactionRecordedCmd struct {
	conn      uuid.UUID
	username  string
	messageID int64
	emoji     string
	result    contract.ReactionResult
	err       error
}

func (c registerCmd) connID() uuid.UUID         { return c.conn }
func (c joinCmd) connID() uuid.UUID             { return c.conn }
func (c switchRoomCmd) connID() uuid.UUID       { return c.conn }
func (c sendMessageCmd) connID() uuid.UUID      { return c.conn }
func (c markReadCmd) connID() uuid.UUID         { return c.conn }
func (c reactCmd) connID() uuid.UUID            { return c.conn }
func (c typingCmd) connID() uuid.UUID           { return c.conn }
func (c disconnectCmd) connID() uuid.UUID       { return c.conn }
func (c historyLoadedCmd) connID() uuid.UUID    { return c.conn }
func (c messageStoredCmd) connID() uuid.UUID    { return c.conn }
func (c readRecordedCmd) connID() uuid.UUID     { return c.conn }
func (c reactionRecordedCmd) connID() uuid.UUID { return c.conn }
