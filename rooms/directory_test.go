package rooms

import (
	"testing"

	"chathub/presence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDirectory_List_Keeps_Configured_Order(t *testing.T) {
	req := require.New(t)
	registry := presence.NewRegistry()
	directory := NewDirectory([]string{"general", "random", "tech", "gaming"}, registry)

	// Occupancy must never reorder the listing.
	req.NoError(registry.Put(uuid.New(), "alice", "gaming"))
	req.NoError(registry.Put(uuid.New(), "bob", "gaming"))
	req.NoError(registry.Put(uuid.New(), "clara", "random"))

	infos := directory.List()
	req.Len(infos, 4)
	req.Equal("general", infos[0].Name)
	req.Equal(0, infos[0].UserCount)
	req.Equal("random", infos[1].Name)
	req.Equal(1, infos[1].UserCount)
	req.Equal("tech", infos[2].Name)
	req.Equal("gaming", infos[3].Name)
	req.Equal(2, infos[3].UserCount)
}

func TestDirectory_Default_And_Has(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory([]string{"general", "random"}, presence.NewRegistry())

	req.Equal("general", directory.Default())
	req.True(directory.Has("random"))
	req.False(directory.Has("lounge"))
}

func TestDirectory_Register(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory([]string{"general"}, presence.NewRegistry())

	directory.Register("lounge")
	directory.Register("lounge")   // idempotent
	directory.Register("")         // ignored
	directory.Register("bad:room") // ignored, ":" is the store key separator

	req.Equal([]string{"general", "lounge"}, directory.Names())
	req.True(directory.Has("lounge"))
}

func TestDirectory_Rejects_Key_Separator_In_Names(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory([]string{"general", "evil:room"}, presence.NewRegistry())

	// A room named "evil:room" would make "msg:evil" a prefix of its
	// history keys and leak messages across rooms.
	req.Equal([]string{"general"}, directory.Names())
	req.False(directory.Has("evil:room"))
}
