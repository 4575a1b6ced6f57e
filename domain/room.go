package domain

// RoomInfo is a room name paired with its derived occupant count.
// Occupancy is computed from the presence registry, never stored.
type RoomInfo struct {
	Name      string
	UserCount int
}
