//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chathub/domain"
	"chathub/protocol"

	"github.com/google/uuid"
)

// AppendRequest carries everything the store needs to persist a message.
// The store assigns the id and timestamp.
type AppendRequest struct {
	Room    string
	Author  string
	Body    string
	Kind    domain.Kind
	FileRef string
}

// ReadResult reports a read-receipt insertion. AlreadyRead distinguishes
// the idempotent second call so the coordinator can skip the broadcast.
type ReadResult struct {
	AlreadyRead bool
	ReadCount   int
	Room        string
}

// ReactionResult reports a reaction upsert with the full distinct emoji
// set now attached to the message.
type ReactionResult struct {
	Emojis []string
	Room   string
}

type IMessageStore interface {
	Append(req AppendRequest) (domain.Message, error)
	History(room string, limit int) ([]domain.Message, error)
	RecordRead(messageID int64, identity string) (ReadResult, error)
	RecordReaction(messageID int64, identity, emoji string) (ReactionResult, error)
	Get(messageID int64) (domain.Message, error)
}

// ICredentials is the credential-check collaborator. Login returns a signed
// session token usable as Bearer auth on the HTTP surface.
type ICredentials interface {
	Register(username, password string) error
	Login(username, password string) (string, error)
}

// EventSink receives outbound events for one connection. Implementations
// must not block; a slow consumer returns an error and the event is lost.
type EventSink interface {
	Consume(e protocol.Event) error
}

// IGateway addresses events to audiences. The coordinator never touches
// sinks directly.
type IGateway interface {
	Attach(connID uuid.UUID, sink EventSink)
	Detach(connID uuid.UUID)
	ToConn(connID uuid.UUID, e protocol.Event)
	ToRoom(room string, e protocol.Event)
	ToRoomExcept(room string, except uuid.UUID, e protocol.Event)
}
