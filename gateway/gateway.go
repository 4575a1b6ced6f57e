// Package gateway is the fan-out layer. The coordinator asks it to deliver
// named events to named audiences; which connections make up "everyone in
// room R" is resolved here against the presence registry, keeping the
// coordinator free of any sink bookkeeping.
package gateway

import (
	"log/slog"
	"sync"

	"chathub/contract"
	"chathub/observability"
	"chathub/presence"
	"chathub/protocol"

	"github.com/google/uuid"
)

type Gateway struct {
	mu       sync.RWMutex
	log      *slog.Logger
	registry *presence.Registry
	monitor  *observability.Monitor
	sinks    map[uuid.UUID]contract.EventSink
}

func NewGateway(log *slog.Logger, registry *presence.Registry, monitor *observability.Monitor) *Gateway {
	return &Gateway{
		log:      log,
		registry: registry,
		monitor:  monitor,
		sinks:    make(map[uuid.UUID]contract.EventSink),
	}
}

var _ contract.IGateway = (*Gateway)(nil)

// Attach registers the sink for a connection. Delivery is best effort from
// this point until Detach.
func (g *Gateway) Attach(connID uuid.UUID, sink contract.EventSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sinks[connID] = sink
}

func (g *Gateway) Detach(connID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sinks, connID)
}

// ToConn delivers to the one connection, if still attached.
func (g *Gateway) ToConn(connID uuid.UUID, e protocol.Event) {
	g.mu.RLock()
	sink, ok := g.sinks[connID]
	g.mu.RUnlock()
	if !ok {
		return
	}
	g.deliver(connID, sink, e)
}

// ToRoom delivers to every connection currently sessioned into the room.
func (g *Gateway) ToRoom(room string, e protocol.Event) {
	g.ToRoomExcept(room, uuid.Nil, e)
}

// ToRoomExcept delivers to a room's connections, skipping one. The
// membership snapshot is taken at call time; a connection racing its own
// disconnect simply misses the event.
func (g *Gateway) ToRoomExcept(room string, except uuid.UUID, e protocol.Event) {
	for _, connID := range g.registry.ConnsIn(room) {
		if connID == except {
			continue
		}
		g.mu.RLock()
		sink, ok := g.sinks[connID]
		g.mu.RUnlock()
		if !ok {
			continue
		}
		g.deliver(connID, sink, e)
	}
}

func (g *Gateway) deliver(connID uuid.UUID, sink contract.EventSink, e protocol.Event) {
	if err := sink.Consume(e); err != nil {
		g.log.Warn("event dropped", "conn", connID, "event", e.Name, "error", err)
		return
	}
	g.monitor.AddBroadcast()
}
