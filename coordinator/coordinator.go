// Package coordinator drives the per-connection state machine:
// Anonymous -> Authenticated(room) -> Authenticated(otherRoom)* -> Closed.
// A single goroutine consumes the command queue, so presence mutation and
// occupancy computation need no locking of their own. Storage calls run on
// their own goroutines and re-enter the queue as completion commands, so a
// slow write for one connection never stalls the others.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chathub/contract"
	"chathub/domain"
	errs "chathub/errors"
	"chathub/moderation"
	"chathub/observability"
	"chathub/presence"
	"chathub/protocol"
	"chathub/rooms"

	"github.com/google/uuid"
)

type Coordinator struct {
	log       *slog.Logger
	store     contract.IMessageStore
	creds     contract.ICredentials
	registry  *presence.Registry
	directory *rooms.Directory
	gateway   contract.IGateway
	moderator *moderation.Moderator // nil when moderation is disabled
	monitor   *observability.Monitor

	historyLimit int
	commands     chan command
}

func NewCoordinator(
	log *slog.Logger,
	store contract.IMessageStore,
	creds contract.ICredentials,
	registry *presence.Registry,
	directory *rooms.Directory,
	gw contract.IGateway,
	moderator *moderation.Moderator,
	monitor *observability.Monitor,
	historyLimit, bufferSize int,
) *Coordinator {
	return &Coordinator{
		log:          log,
		store:        store,
		creds:        creds,
		registry:     registry,
		directory:    directory,
		gateway:      gw,
		moderator:    moderator,
		monitor:      monitor,
		historyLimit: historyLimit,
		commands:     make(chan command, bufferSize),
	}
}

// Run consumes the command queue until the context is cancelled. Exactly
// one Run loop may be active per coordinator.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case cmd := <-c.commands:
			c.handle(cmd)
		case <-ctx.Done():
			return nil
		}
	}
}

// Client-facing dispatchers, called from the transport's read pumps.

func (c *Coordinator) Register(conn uuid.UUID, username, password string) {
	c.dispatch(registerCmd{conn: conn, username: username, password: password})
}

func (c *Coordinator) Join(conn uuid.UUID, username, password, room string) {
	c.dispatch(joinCmd{conn: conn, username: username, password: password, room: room})
}

func (c *Coordinator) SwitchRoom(conn uuid.UUID, room string) {
	c.dispatch(switchRoomCmd{conn: conn, room: room})
}

func (c *Coordinator) SendMessage(conn uuid.UUID, body, kind, fileRef string) {
	c.dispatch(sendMessageCmd{conn: conn, body: body, kind: domain.KindFromString(kind), fileRef: fileRef})
}

func (c *Coordinator) MarkRead(conn uuid.UUID, messageID int64) {
	c.dispatch(markReadCmd{conn: conn, messageID: messageID})
}

func (c *Coordinator) React(conn uuid.UUID, messageID int64, emoji string) {
	c.dispatch(reactCmd{conn: conn, messageID: messageID, emoji: emoji})
}

func (c *Coordinator) TypingStart(conn uuid.UUID) {
	c.dispatch(typingCmd{conn: conn})
}

func (c *Coordinator) TypingStop(conn uuid.UUID) {
	c.dispatch(typingCmd{conn: conn, stopped: true})
}

func (c *Coordinator) Disconnect(conn uuid.UUID) {
	c.dispatch(disconnectCmd{conn: conn})
}

// dispatch drops client commands when the queue is saturated rather than
// blocking a read pump. Completion commands never go through here.
func (c *Coordinator) dispatch(cmd command) {
	c.monitor.AddEventIn()
	select {
	case c.commands <- cmd:
	default:
		c.log.Warn("command queue full, dropping event",
			"conn", cmd.connID(), "command", fmt.Sprintf("%T", cmd))
	}
}

// complete re-enters the loop with a storage result. Completions must not
// be lost, so this send blocks if the queue is momentarily full.
func (c *Coordinator) complete(cmd command) {
	c.commands <- cmd
}

func (c *Coordinator) handle(cmd command) {
	switch cmd := cmd.(type) {
	case registerCmd:
		c.handleRegister(cmd)
	case joinCmd:
		c.handleJoin(cmd)
	case switchRoomCmd:
		c.handleSwitchRoom(cmd)
	case sendMessageCmd:
		c.handleSendMessage(cmd)
	case markReadCmd:
		c.handleMarkRead(cmd)
	case reactCmd:
		c.handleReact(cmd)
	case typingCmd:
		c.handleTyping(cmd)
	case disconnectCmd:
		c.handleDisconnect(cmd)
	case historyLoadedCmd:
		c.handleHistoryLoaded(cmd)
	case messageStoredCmd:
		c.handleMessageStored(cmd)
	case readRecordedCmd:
		c.handleReadRecorded(cmd)
	case reactionRecordedCmd:
		c.handleReactionRecorded(cmd)
	}
}

// handleRegister creates the identity. The connection stays Anonymous
// either way; errors are private and non-fatal.
func (c *Coordinator) handleRegister(cmd registerCmd) {
	if err := c.creds.Register(cmd.username, cmd.password); err != nil {
		c.gateway.ToConn(cmd.conn, protocol.Event{
			Name:    protocol.EventRegisterError,
			Payload: err.Error(),
		})
		return
	}
	c.log.Info("new user registered", "username", cmd.username)
	c.gateway.ToConn(cmd.conn, protocol.Event{
		Name:    protocol.EventRegisterSuccess,
		Payload: "Account created successfully",
	})
}

// handleJoin authenticates and installs presence, then hands off to the
// asynchronous history fetch. The joined notice and the snapshot are only
// emitted once history is in hand, so the joining connection never observes
// its own join and never gets a snapshot it cannot render.
func (c *Coordinator) handleJoin(cmd joinCmd) {
	room := cmd.room
	if room == "" {
		room = c.directory.Default()
	}
	if !c.directory.Has(room) {
		c.gateway.ToConn(cmd.conn, protocol.Event{
			Name:    protocol.EventAuthError,
			Payload: fmt.Sprintf("%s: %s", errs.ErrUnknownRoom, room),
		})
		return
	}

	token, err := c.creds.Login(cmd.username, cmd.password)
	if err != nil {
		c.gateway.ToConn(cmd.conn, protocol.Event{
			Name:    protocol.EventAuthError,
			Payload: "Invalid username or password",
		})
		return
	}

	if err := c.registry.Put(cmd.conn, cmd.username, room); err != nil {
		c.gateway.ToConn(cmd.conn, protocol.Event{
			Name:    protocol.EventAuthError,
			Payload: err.Error(),
		})
		return
	}

	go func() {
		messages, err := c.store.History(room, c.historyLimit)
		c.complete(historyLoadedCmd{
			conn:     cmd.conn,
			username: cmd.username,
			room:     room,
			token:    token,
			messages: messages,
			err:      err,
		})
	}()
}

// handleSwitchRoom moves presence and announces the move immediately; the
// snapshot for the switching connection follows once history arrives.
func (c *Coordinator) handleSwitchRoom(cmd switchRoomCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok {
		return // stale event from an unauthenticated connection
	}
	if !c.directory.Has(cmd.room) {
		c.log.Debug("switch to unknown room ignored", "room", cmd.room, "username", sess.Identity)
		return
	}

	oldRoom, newRoom, err := c.registry.MoveRoom(cmd.conn, cmd.room)
	if err != nil || oldRoom == newRoom {
		return // nothing to broadcast
	}

	c.gateway.ToRoom(oldRoom, protocol.Event{
		Name: protocol.EventUserLeft,
		Payload: protocol.UserNotice{
			Username:  sess.Identity,
			Message:   sess.Identity + " left the room",
			Timestamp: nowStamp(),
			UserCount: c.registry.CountIn(oldRoom),
		},
	})
	c.gateway.ToRoomExcept(newRoom, cmd.conn, protocol.Event{
		Name: protocol.EventUserJoined,
		Payload: protocol.UserNotice{
			Username:  sess.Identity,
			Message:   sess.Identity + " joined the room",
			Timestamp: nowStamp(),
			UserCount: c.registry.CountIn(newRoom),
		},
	})
	c.log.Info("room switched", "username", sess.Identity, "from", oldRoom, "to", newRoom)

	go func() {
		messages, err := c.store.History(newRoom, c.historyLimit)
		c.complete(historyLoadedCmd{
			conn:     cmd.conn,
			username: sess.Identity,
			room:     newRoom,
			isSwitch: true,
			messages: messages,
			err:      err,
		})
	}()
}

func (c *Coordinator) handleHistoryLoaded(cmd historyLoadedCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok || sess.Room != cmd.room || sess.Identity != cmd.username {
		// The connection left or moved again while the fetch was in
		// flight; this snapshot is for a world that no longer exists.
		return
	}

	if cmd.err != nil {
		c.log.Error("history fetch failed", "room", cmd.room, "error", cmd.err)
		if cmd.isSwitch {
			// The move already happened and was announced; keep the
			// membership and let occupancy catch up below.
			c.broadcastOccupancy()
			return
		}
		// Join cannot proceed without history: roll back presence so the
		// connection stays Anonymous, then report privately.
		c.registry.Remove(cmd.conn)
		c.gateway.ToConn(cmd.conn, protocol.Event{
			Name:    protocol.EventAuthError,
			Payload: "Error loading chat history",
		})
		return
	}

	if !cmd.isSwitch {
		c.gateway.ToRoomExcept(cmd.room, cmd.conn, protocol.Event{
			Name: protocol.EventUserJoined,
			Payload: protocol.UserNotice{
				Username:  cmd.username,
				Message:   cmd.username + " joined the room",
				Timestamp: nowStamp(),
				UserCount: c.registry.CountIn(cmd.room),
			},
		})
		c.log.Info("user joined room", "username", cmd.username, "room", cmd.room)
	}

	c.gateway.ToConn(cmd.conn, protocol.Event{
		Name: protocol.EventRoomJoined,
		Payload: protocol.RoomJoined{
			Room:           cmd.room,
			Users:          c.registry.UsersIn(cmd.room),
			RoomList:       c.roomList(),
			MessageHistory: protocol.FromMessages(cmd.messages),
			Token:          cmd.token,
		},
	})
	c.broadcastOccupancy()
}

func (c *Coordinator) handleSendMessage(cmd sendMessageCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok {
		return
	}

	body := cmd.body
	if c.moderator != nil {
		body = c.moderator.Censor(body)
	}

	request := contract.AppendRequest{
		Room:    sess.Room,
		Author:  sess.Identity,
		Body:    body,
		Kind:    cmd.kind,
		FileRef: cmd.fileRef,
	}
	go func() {
		msg, err := c.store.Append(request)
		c.complete(messageStoredCmd{conn: cmd.conn, msg: msg, err: err})
	}()
}

// handleMessageStored finishes a send. The broadcast targets the message's
// own room: if the author switched or disconnected while the write was in
// flight the room still gets its authoritative echo, and only the private
// failure reply is suppressed for a gone connection.
func (c *Coordinator) handleMessageStored(cmd messageStoredCmd) {
	if cmd.err != nil {
		c.log.Error("message append failed", "error", cmd.err)
		if _, ok := c.registry.Get(cmd.conn); ok {
			c.gateway.ToConn(cmd.conn, protocol.Event{
				Name:    protocol.EventMessageError,
				Payload: "Failed to send message",
			})
		}
		return
	}

	c.monitor.AddStoredMsg()
	c.gateway.ToRoom(cmd.msg.Room, protocol.Event{
		Name:    protocol.EventReceiveMessage,
		Payload: protocol.FromMessage(cmd.msg),
	})
}

func (c *Coordinator) handleMarkRead(cmd markReadCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok {
		return
	}
	go func() {
		result, err := c.store.RecordRead(cmd.messageID, sess.Identity)
		c.complete(readRecordedCmd{
			conn:      cmd.conn,
			username:  sess.Identity,
			messageID: cmd.messageID,
			result:    result,
			err:       err,
		})
	}()
}

// handleReadRecorded broadcasts the increment once, to everyone in the
// message's room but the reader. The idempotent second read produces zero
// events by contract.
func (c *Coordinator) handleReadRecorded(cmd readRecordedCmd) {
	if cmd.err != nil {
		c.log.Debug("read receipt dropped", "message_id", cmd.messageID, "error", cmd.err)
		return
	}
	if cmd.result.AlreadyRead {
		return
	}
	c.gateway.ToRoomExcept(cmd.result.Room, cmd.conn, protocol.Event{
		Name: protocol.EventMessageReadUpdate,
		Payload: protocol.ReadUpdate{
			MessageID: cmd.messageID,
			Username:  cmd.username,
			ReadCount: cmd.result.ReadCount,
		},
	})
}

func (c *Coordinator) handleReact(cmd reactCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok {
		return
	}
	go func() {
		result, err := c.store.RecordReaction(cmd.messageID, sess.Identity, cmd.emoji)
		c.complete(reactionRecordedCmd{
			conn:      cmd.conn,
			username:  sess.Identity,
			messageID: cmd.messageID,
			emoji:     cmd.emoji,
			result:    result,
			err:       err,
		})
	}()
}

// handleReactionRecorded always broadcasts, sender included: a re-asserted
// reaction is a legitimate no-op event, unlike a repeated read.
func (c *Coordinator) handleReactionRecorded(cmd reactionRecordedCmd) {
	if cmd.err != nil {
		c.log.Debug("reaction dropped", "message_id", cmd.messageID, "error", cmd.err)
		return
	}
	c.gateway.ToRoom(cmd.result.Room, protocol.Event{
		Name: protocol.EventReactionAdded,
		Payload: protocol.ReactionAdded{
			MessageID: cmd.messageID,
			Username:  cmd.username,
			Emoji:     cmd.emoji,
		},
	})
}

// handleTyping is pure ephemeral fan-out to the rest of the room. Receivers
// must auto-expire the indicator; no matching stop is guaranteed.
func (c *Coordinator) handleTyping(cmd typingCmd) {
	sess, ok := c.registry.Get(cmd.conn)
	if !ok {
		return
	}
	name := protocol.EventUserTyping
	if cmd.stopped {
		name = protocol.EventUserStoppedTyping
	}
	c.gateway.ToRoomExcept(sess.Room, cmd.conn, protocol.Event{
		Name: name,
		Payload: protocol.Typing{
			Username: sess.Identity,
			Room:     sess.Room,
		},
	})
}

// handleDisconnect closes the session from any state. No further events are
// accepted for the connection; anything still queued resolves to a missing
// session and is ignored.
func (c *Coordinator) handleDisconnect(cmd disconnectCmd) {
	sess, ok := c.registry.Remove(cmd.conn)
	if !ok {
		return
	}
	c.gateway.ToRoom(sess.Room, protocol.Event{
		Name: protocol.EventUserLeft,
		Payload: protocol.UserNotice{
			Username:  sess.Identity,
			Message:   sess.Identity + " left the room",
			Timestamp: nowStamp(),
			UserCount: c.registry.CountIn(sess.Room),
		},
	})
	c.broadcastOccupancy()
	c.log.Info("user disconnected", "username", sess.Identity, "room", sess.Room)
}

// broadcastOccupancy refreshes every room's occupancy for all members, so
// sidebars with counts update without switching rooms.
func (c *Coordinator) broadcastOccupancy() {
	for _, name := range c.directory.Names() {
		c.gateway.ToRoom(name, protocol.Event{
			Name: protocol.EventRoomUsersUpdate,
			Payload: protocol.RoomUsersUpdate{
				Room:      name,
				Users:     c.registry.UsersIn(name),
				UserCount: c.registry.CountIn(name),
			},
		})
	}
}

func (c *Coordinator) roomList() []protocol.RoomSummary {
	infos := c.directory.List()
	list := make([]protocol.RoomSummary, 0, len(infos))
	for _, info := range infos {
		list = append(list, protocol.RoomSummary{
			Name:      info.Name,
			UserCount: info.UserCount,
		})
	}
	return list
}

func nowStamp() string {
	return time.Now().Format(protocol.TimestampLayout)
}
