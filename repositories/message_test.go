package repositories

import (
	"fmt"
	"log/slog"
	"testing"

	"chathub/contract"
	"chathub/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	// Reduced to 16 Mo for testing (avoid 2 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepository(t *testing.T) *MessageRepository {
	t.Helper()
	return NewMessageRepository(openTestDB(t), nil, slog.Default())
}

func TestMessageRepository_Append_Assigns_Monotonic_IDs(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	// Ids climb across rooms, not per room.
	first, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "hello", Kind: domain.KindText})
	req.NoError(err)
	second, err := repo.Append(contract.AppendRequest{Room: "random", Author: "bob", Body: "hi", Kind: domain.KindText})
	req.NoError(err)
	third, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "again", Kind: domain.KindText})
	req.NoError(err)

	req.Equal(int64(1), first.ID)
	req.Equal(int64(2), second.ID)
	req.Equal(int64(3), third.ID)
}

func TestMessageRepository_History_Order_And_Limit(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	for i := 1; i <= 10; i++ {
		_, err := repo.Append(contract.AppendRequest{
			Room:   "general",
			Author: fmt.Sprintf("user_%d", i),
			Body:   fmt.Sprintf("Message %d", i),
			Kind:   domain.KindText,
		})
		req.NoError(err)
	}
	// A second room must not leak into the scan.
	_, err := repo.Append(contract.AppendRequest{Room: "random", Author: "eve", Body: "elsewhere", Kind: domain.KindText})
	req.NoError(err)

	t.Run("limit keeps the newest, returned oldest first", func(t *testing.T) {
		messages, err := repo.History("general", 4)
		req.NoError(err)
		req.Len(messages, 4)
		req.Equal("user_7", messages[0].Author)
		req.Equal("user_10", messages[3].Author)

		ids := lo.Map(messages, func(m domain.Message, _ int) int64 { return m.ID })
		req.IsIncreasing(ids)
	})

	t.Run("unlimited returns everything in the room", func(t *testing.T) {
		messages, err := repo.History("general", 0)
		req.NoError(err)
		req.Len(messages, 10)
	})

	t.Run("empty room yields an empty history", func(t *testing.T) {
		messages, err := repo.History("tech", 50)
		req.NoError(err)
		req.Empty(messages)
	})
}

func TestMessageRepository_RecordRead(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	msg, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "hello", Kind: domain.KindText})
	req.NoError(err)

	t.Run("first read increments", func(t *testing.T) {
		result, err := repo.RecordRead(msg.ID, "bob")
		req.NoError(err)
		req.False(result.AlreadyRead)
		req.Equal(1, result.ReadCount)
		req.Equal("general", result.Room)
	})

	t.Run("second read by the same identity is a no-op", func(t *testing.T) {
		result, err := repo.RecordRead(msg.ID, "bob")
		req.NoError(err)
		req.True(result.AlreadyRead)
		req.Equal(1, result.ReadCount)
	})

	t.Run("distinct identities keep counting", func(t *testing.T) {
		result, err := repo.RecordRead(msg.ID, "clara")
		req.NoError(err)
		req.False(result.AlreadyRead)
		req.Equal(2, result.ReadCount)
	})

	t.Run("unknown message is a storage error", func(t *testing.T) {
		_, err := repo.RecordRead(999, "bob")
		req.Error(err)
	})
}

func TestMessageRepository_RecordReaction(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	msg, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "hello", Kind: domain.KindText})
	req.NoError(err)

	t.Run("first reactions aggregate by first attachment", func(t *testing.T) {
		result, err := repo.RecordReaction(msg.ID, "bob", "👍")
		req.NoError(err)
		req.Equal([]string{"👍"}, result.Emojis)
		req.Equal("general", result.Room)

		result, err = repo.RecordReaction(msg.ID, "clara", "🔥")
		req.NoError(err)
		req.Equal([]string{"👍", "🔥"}, result.Emojis)
	})

	t.Run("same emoji by another identity does not duplicate", func(t *testing.T) {
		result, err := repo.RecordReaction(msg.ID, "dave", "👍")
		req.NoError(err)
		req.Equal([]string{"👍", "🔥"}, result.Emojis)
	})

	t.Run("re-reacting replaces the identity's prior emoji", func(t *testing.T) {
		// bob was the only 👍 before dave arrived; move bob to 🎉.
		result, err := repo.RecordReaction(msg.ID, "bob", "🎉")
		req.NoError(err)
		// 👍 survives through dave, 🎉 is newest.
		req.ElementsMatch([]string{"👍", "🔥", "🎉"}, result.Emojis)
		req.Equal("🎉", result.Emojis[len(result.Emojis)-1])
	})

	t.Run("re-asserting the same emoji changes nothing", func(t *testing.T) {
		before, err := repo.RecordReaction(msg.ID, "clara", "🔥")
		req.NoError(err)
		after, err := repo.RecordReaction(msg.ID, "clara", "🔥")
		req.NoError(err)
		req.Equal(before.Emojis, after.Emojis)
	})
}

func TestMessageRepository_Annotations_In_History_And_Get(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t)

	msg, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "hello", Kind: domain.KindText})
	req.NoError(err)
	req.Zero(msg.ReadCount)
	req.Nil(msg.Reactions)

	_, err = repo.RecordRead(msg.ID, "bob")
	req.NoError(err)
	_, err = repo.RecordReaction(msg.ID, "bob", "👍")
	req.NoError(err)

	messages, err := repo.History("general", 50)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(1, messages[0].ReadCount)
	req.Equal([]string{"👍"}, messages[0].Reactions)

	got, err := repo.Get(msg.ID)
	req.NoError(err)
	req.Equal(messages[0], got)
}

func TestMessageRepository_Sequence_Survives_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	options := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20)

	db, err := badger.Open(options)
	req.NoError(err)
	repo := NewMessageRepository(db, nil, slog.Default())
	first, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "hello", Kind: domain.KindText})
	req.NoError(err)
	req.Equal(int64(1), first.ID)
	req.NoError(db.Close())

	db, err = badger.Open(options)
	req.NoError(err)
	defer db.Close()
	repo = NewMessageRepository(db, nil, slog.Default())
	second, err := repo.Append(contract.AppendRequest{Room: "general", Author: "alice", Body: "again", Kind: domain.KindText})
	req.NoError(err)
	req.Equal(int64(2), second.ID)
}
