// Package protocol defines the wire-level event vocabulary exchanged with
// clients. Every frame is an Envelope carrying an event name and a payload;
// the payload structs below mirror the shapes the original clients expect.
package protocol

import (
	"chathub/domain"
)

// Inbound event names.
const (
	EventRegister    = "register"
	EventJoin        = "join"
	EventSwitchRoom  = "switch_room"
	EventSendMessage = "send_message"
	EventMessageRead = "message_read"
	EventAddReaction = "add_reaction"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
)

// Outbound event names.
const (
	EventRegisterSuccess   = "register_success"
	EventRegisterError     = "register_error"
	EventRoomJoined        = "room_joined"
	EventAuthError         = "auth_error"
	EventUserJoined        = "user_joined"
	EventUserLeft          = "user_left"
	EventRoomUsersUpdate   = "room_users_update"
	EventReceiveMessage    = "receive_message"
	EventMessageError      = "message_error"
	EventMessageReadUpdate = "message_read_update"
	EventReactionAdded     = "reaction_added"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
)

// Event is one logical frame. Error events carry a plain string payload.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"data,omitempty"`
}

// RegisterRequest carries account creation data.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// JoinRequest authenticates a connection and targets a room.
// Room is optional; the server substitutes the configured default.
type JoinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Room     string `json:"room,omitempty"`
}

// SendMessageRequest posts a message into the sender's current room.
type SendMessageRequest struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	FileRef string `json:"file_url,omitempty"`
}

// MessageReadRequest acknowledges that the sender has observed a message.
type MessageReadRequest struct {
	MessageID int64 `json:"message_id"`
}

// AddReactionRequest attaches an emoji to a message.
type AddReactionRequest struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// RoomSummary is one entry of the room directory listing.
type RoomSummary struct {
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// WireMessage is the client-facing rendition of a stored message.
// Reactions stays nil (JSON null) until someone reacts.
type WireMessage struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	Room      string   `json:"room"`
	Type      string   `json:"type"`
	FileRef   string   `json:"file_url,omitempty"`
	ReadCount int      `json:"read_count"`
	Reactions []string `json:"reactions"`
}

// RoomJoined is the snapshot delivered to the joining connection only.
// Token authenticates the HTTP surface (uploads) for this session.
type RoomJoined struct {
	Room           string        `json:"room"`
	Users          []string      `json:"users"`
	RoomList       []RoomSummary `json:"roomList"`
	MessageHistory []WireMessage `json:"messageHistory"`
	Token          string        `json:"token,omitempty"`
}

// UserNotice announces a join or leave to a room's other occupants.
type UserNotice struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	UserCount int    `json:"userCount"`
}

// RoomUsersUpdate refreshes one room's occupancy for sidebar rendering.
type RoomUsersUpdate struct {
	Room      string   `json:"room"`
	Users     []string `json:"users"`
	UserCount int      `json:"userCount"`
}

// ReadUpdate notifies a room that one more identity has read a message.
// Receivers may recompute the count locally to tolerate reordering.
type ReadUpdate struct {
	MessageID int64  `json:"message_id"`
	Username  string `json:"username"`
	ReadCount int    `json:"read_count"`
}

// ReactionAdded notifies a room of a (possibly re-asserted) reaction.
type ReactionAdded struct {
	MessageID int64  `json:"message_id"`
	Username  string `json:"username"`
	Emoji     string `json:"emoji"`
}

// Typing is the ephemeral typing indicator. Receivers auto-expire it;
// a matching stop event is not guaranteed.
type Typing struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// TimestampLayout is the display clock format used in notices and messages.
// Ordering authority is the store-assigned message id, not this string.
const TimestampLayout = "15:04:05"

// FromMessage converts a stored message to its wire shape.
func FromMessage(m domain.Message) WireMessage {
	return WireMessage{
		ID:        m.ID,
		Username:  m.Author,
		Message:   m.Body,
		Timestamp: m.At.Format(TimestampLayout),
		Room:      m.Room,
		Type:      string(m.Kind),
		FileRef:   m.FileRef,
		ReadCount: m.ReadCount,
		Reactions: m.Reactions,
	}
}

// FromMessages converts a history slice, always returning a non-nil slice
// so an empty history serializes as [] rather than null.
func FromMessages(msgs []domain.Message) []WireMessage {
	wire := make([]WireMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, FromMessage(m))
	}
	return wire
}
