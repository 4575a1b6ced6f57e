// Package presence owns the authoritative connection -> session mapping:
// who is online, and in which room. It is mutated only by the session
// coordinator and read concurrently by the gateway and the HTTP surface.
package presence

import (
	"sort"
	"sync"
	"time"

	"chathub/domain"
	errs "chathub/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type connSet map[uuid.UUID]struct{}

type Registry struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]domain.Session
	roomConns map[string]connSet
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[uuid.UUID]domain.Session),
		roomConns: make(map[string]connSet),
	}
}

// Put installs or overwrites the session for a connection. A connection
// re-joining lands here again; its old room membership is dropped first so
// no session ever appears in two rooms.
func (r *Registry) Put(connID uuid.UUID, identity, room string) error {
	if identity == "" || room == "" {
		return errs.ErrEmptyField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[connID]; ok {
		r.dropFromRoom(prev.Room, connID)
	}
	r.sessions[connID] = domain.Session{
		ConnID:   connID,
		Identity: identity,
		Room:     room,
		JoinedAt: time.Now().UTC(),
	}
	r.addToRoom(room, connID)
	return nil
}

// Get returns the current session for a connection, if any.
func (r *Registry) Get(connID uuid.UUID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}

// Remove is idempotent and returns the removed session when one existed.
func (r *Registry) Remove(connID uuid.UUID) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, connID)
	r.dropFromRoom(sess.Room, connID)
	return sess, true
}

// MoveRoom reassigns a session to newRoom. Equal old/new means "nothing to
// broadcast" and must be treated as a no-op by callers. The join timestamp
// is preserved: it tracks the session, not the room.
func (r *Registry) MoveRoom(connID uuid.UUID, newRoom string) (oldRoom, currentRoom string, err error) {
	if newRoom == "" {
		return "", "", errs.ErrEmptyField
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return "", "", errs.ErrNotAuthenticated
	}
	if sess.Room == newRoom {
		return newRoom, newRoom, nil
	}

	oldRoom = sess.Room
	r.dropFromRoom(oldRoom, connID)
	sess.Room = newRoom
	r.sessions[connID] = sess
	r.addToRoom(newRoom, connID)
	return oldRoom, newRoom, nil
}

// UsersIn returns the distinct identities currently sessioned into a room,
// ordered by session join time. Multiple devices of one identity collapse
// into a single entry.
func (r *Registry) UsersIn(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]domain.Session, 0, len(r.roomConns[room]))
	for connID := range r.roomConns[room] {
		if sess, ok := r.sessions[connID]; ok {
			members = append(members, sess)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].Identity < members[j].Identity
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return lo.Uniq(lo.Map(members, func(s domain.Session, _ int) string {
		return s.Identity
	}))
}

// CountIn counts distinct identities, matching UsersIn.
func (r *Registry) CountIn(room string) int {
	return len(r.UsersIn(room))
}

// ConnsIn returns the connection ids subscribed to a room. This is the
// fan-out audience; unlike UsersIn it does not collapse multi-device.
func (r *Registry) ConnsIn(room string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]uuid.UUID, 0, len(r.roomConns[room]))
	for connID := range r.roomConns[room] {
		conns = append(conns, connID)
	}
	return conns
}

func (r *Registry) addToRoom(room string, connID uuid.UUID) {
	if _, ok := r.roomConns[room]; !ok {
		r.roomConns[room] = make(connSet)
	}
	r.roomConns[room][connID] = struct{}{}
}

// dropFromRoom removes the membership entry and cleans up empty sets so
// the map does not leak rooms over time.
func (r *Registry) dropFromRoom(room string, connID uuid.UUID) {
	if members, ok := r.roomConns[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.roomConns, room)
		}
	}
}
