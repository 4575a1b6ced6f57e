// Package transport carries the event protocol over websockets. Each
// connection gets a read pump feeding the coordinator (preserving per-
// connection arrival order) and a write pump draining a buffered send
// channel; a consumer that cannot keep up loses events rather than
// stalling the fan-out path.
package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"chathub/contract"
	"chathub/coordinator"
	"chathub/observability"
	"chathub/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
)

// envelope is the raw inbound frame; Data stays undecoded until the event
// name selects a payload shape.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Server struct {
	log      *slog.Logger
	coord    *coordinator.Coordinator
	gateway  contract.IGateway
	monitor  *observability.Monitor
	upgrader websocket.Upgrader
	sendBuf  int
}

func NewServer(log *slog.Logger, coord *coordinator.Coordinator, gw contract.IGateway, monitor *observability.Monitor, sendBuf int) *Server {
	return &Server{
		log:     log,
		coord:   coord,
		gateway: gw,
		monitor: monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from arbitrary dev origins; access
			// control happens at the event layer, not the handshake.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuf: sendBuf,
	}
}

// ServeWS upgrades the request and runs the connection until it drops.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.New()
	cl := &client{
		id:   connID,
		conn: conn,
		send: make(chan protocol.Event, s.sendBuf),
		done: make(chan struct{}),
		log:  s.log,
	}

	s.monitor.ConnOpened()
	s.gateway.Attach(connID, cl)
	s.log.Info("connection opened", "conn", connID)

	go cl.writePump()
	s.readPump(cl)

	// Read pump returned: the transport is gone. Tear down in an order
	// that stops new deliveries before the session is closed out. The
	// send channel is never closed; done both stops the write pump and
	// fails any delivery racing the detach.
	s.gateway.Detach(connID)
	s.coord.Disconnect(connID)
	close(cl.done)
	s.monitor.ConnClosed()
	s.log.Info("connection closed", "conn", connID)
}

func (s *Server) readPump(cl *client) {
	cl.conn.SetReadLimit(maxFrameSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read error", "conn", cl.id, "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.log.Debug("malformed frame dropped", "conn", cl.id, "error", err)
			continue
		}
		s.route(cl.id, env)
	}
}

// route decodes the payload for the named event and hands it to the
// coordinator. Undecodable payloads and unknown events are dropped;
// stale client frames are expected and never fatal.
func (s *Server) route(connID uuid.UUID, env envelope) {
	switch env.Event {
	case protocol.EventRegister:
		var req protocol.RegisterRequest
		if decode(s.log, connID, env, &req) {
			s.coord.Register(connID, req.Username, req.Password)
		}
	case protocol.EventJoin:
		var req protocol.JoinRequest
		if decode(s.log, connID, env, &req) {
			s.coord.Join(connID, req.Username, req.Password, req.Room)
		}
	case protocol.EventSwitchRoom:
		var room string
		if decode(s.log, connID, env, &room) {
			s.coord.SwitchRoom(connID, room)
		}
	case protocol.EventSendMessage:
		var req protocol.SendMessageRequest
		if decode(s.log, connID, env, &req) {
			s.coord.SendMessage(connID, req.Message, req.Type, req.FileRef)
		}
	case protocol.EventMessageRead:
		var req protocol.MessageReadRequest
		if decode(s.log, connID, env, &req) {
			s.coord.MarkRead(connID, req.MessageID)
		}
	case protocol.EventAddReaction:
		var req protocol.AddReactionRequest
		if decode(s.log, connID, env, &req) {
			s.coord.React(connID, req.MessageID, req.Emoji)
		}
	case protocol.EventTypingStart:
		s.coord.TypingStart(connID)
	case protocol.EventTypingStop:
		s.coord.TypingStop(connID)
	default:
		s.log.Debug("unknown event dropped", "conn", connID, "event", env.Event)
	}
}

func decode(log *slog.Logger, connID uuid.UUID, env envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Debug("payload decode failed", "conn", connID, "event", env.Event, "error", err)
		return false
	}
	return true
}

// client is the per-connection event sink handed to the gateway.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan protocol.Event
	done chan struct{}
	log  *slog.Logger
}

var _ contract.EventSink = (*client)(nil)

// Consume enqueues an outbound event without ever blocking the caller.
func (c *client) Consume(e protocol.Event) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection %s is closed", c.id)
	case c.send <- e:
		return nil
	default:
		return fmt.Errorf("send buffer full for connection %s", c.id)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case e := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				c.log.Debug("write failed", "conn", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
