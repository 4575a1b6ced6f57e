// Package rooms exposes the room directory: the configured room set with
// occupancy derived from presence. Listing order is the configured insertion
// order; clients rely on it staying stable across updates.
package rooms

import (
	"strings"
	"sync"

	"chathub/domain"
	"chathub/presence"

	"github.com/samber/lo"
)

// validName rejects empty names and names containing ":", which the
// message store uses as its key segment separator.
func validName(name string) bool {
	return name != "" && !strings.Contains(name, ":")
}

type Directory struct {
	mu       sync.RWMutex
	names    []string
	registry *presence.Registry
}

// NewDirectory builds a directory over the configured room names.
// The first name is the default join target.
func NewDirectory(names []string, registry *presence.Registry) *Directory {
	return &Directory{
		names:    lo.Filter(lo.Uniq(names), func(name string, _ int) bool { return validName(name) }),
		registry: registry,
	}
}

// List returns every room with its current occupant count, in configured
// order. Never alphabetical, never occupancy-sorted.
func (d *Directory) List() []domain.RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.Map(d.names, func(name string, _ int) domain.RoomInfo {
		return domain.RoomInfo{
			Name:      name,
			UserCount: d.registry.CountIn(name),
		}
	})
}

// Names returns the configured room names in order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Has reports whether a room is part of the directory.
func (d *Directory) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.Contains(d.names, name)
}

// Default is the room joined when a client names none.
func (d *Directory) Default() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.names) == 0 {
		return ""
	}
	return d.names[0]
}

// Register appends a room at the end of the listing order. Registering an
// existing or invalid name is a no-op, so the set stays open without ever
// reordering.
func (d *Directory) Register(name string) {
	if !validName(name) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !lo.Contains(d.names, name) {
		d.names = append(d.names, name)
	}
}
