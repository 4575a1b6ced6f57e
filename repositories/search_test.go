package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"chathub/domain"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	index := NewSearchIndex(writer, slog.Default())
	t.Cleanup(func() { index.Close() })
	return index
}

func indexMessage(t *testing.T, index *SearchIndex, id int64, room, body string, at time.Time) {
	t.Helper()
	require.NoError(t, index.Index(domain.Message{
		ID:     id,
		Room:   room,
		Author: "alice",
		Body:   body,
		Kind:   domain.KindText,
		At:     at,
	}))
}

func TestSearchIndex_Substring_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	indexMessage(t, index, 1, "general", "Deployment finished without errors", now)
	indexMessage(t, index, 2, "general", "lunch anyone?", now.Add(time.Minute))
	indexMessage(t, index, 3, "general", "redeploy scheduled tonight", now.Add(2*time.Minute))

	t.Run("matches inside words regardless of case", func(t *testing.T) {
		ids, err := index.Search("general", "DEPLOY", SearchFilter{}, 10)
		req.NoError(err)
		req.ElementsMatch([]int64{1, 3}, ids)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		ids, err := index.Search("general", "pizza", SearchFilter{}, 10)
		req.NoError(err)
		req.Empty(ids)
	})
}

func TestSearchIndex_Room_Scoped(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	indexMessage(t, index, 1, "general", "badger release", now)
	indexMessage(t, index, 2, "random", "badger memes", now.Add(time.Minute))

	ids, err := index.Search("general", "badger", SearchFilter{}, 10)
	req.NoError(err)
	req.Equal([]int64{1}, ids)
}

func TestSearchIndex_Newest_First_And_Capped(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	for i := 1; i <= MaxSearchResults+5; i++ {
		indexMessage(t, index, int64(i), "general",
			fmt.Sprintf("release note %d", i), now.Add(time.Duration(i)*time.Second))
	}

	ids, err := index.Search("general", "release", SearchFilter{}, 1000)
	req.NoError(err)
	req.Len(ids, MaxSearchResults)
	// Newest first: the highest ids lead.
	req.Equal(int64(MaxSearchResults+5), ids[0])
	req.Equal(int64(6), ids[len(ids)-1])
}

func TestSearchIndex_Update_Replaces_Document(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	indexMessage(t, index, 1, "general", "first draft", now)
	indexMessage(t, index, 1, "general", "final version", now)

	ids, err := index.Search("general", "draft", SearchFilter{}, 10)
	req.NoError(err)
	req.Empty(ids)

	ids, err = index.Search("general", "final", SearchFilter{}, 10)
	req.NoError(err)
	req.Equal([]int64{1}, ids)
}

func TestSearchIndex_Author_Filter(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	req.NoError(index.Index(domain.Message{
		ID: 1, Room: "general", Author: "alice",
		Body: "shipping the release today", Kind: domain.KindText, At: now,
	}))
	req.NoError(index.Index(domain.Message{
		ID: 2, Room: "general", Author: "bob",
		Body: "release looks good to me", Kind: domain.KindText, At: now.Add(time.Minute),
	}))

	t.Run("scopes to one author", func(t *testing.T) {
		ids, err := index.Search("general", "release", SearchFilter{Author: "bob"}, 10)
		req.NoError(err)
		req.Equal([]int64{2}, ids)
	})

	t.Run("unknown author yields empty", func(t *testing.T) {
		ids, err := index.Search("general", "release", SearchFilter{Author: "clara"}, 10)
		req.NoError(err)
		req.Empty(ids)
	})
}

func TestSearchIndex_Lang_Filter(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	now := time.Now().UTC()

	body := "the quick brown fox jumps over the lazy dog near the river"
	indexMessage(t, index, 1, "general", body, now)

	// Filter on whatever code detection assigned, not on a hardcoded one.
	detected := whatlanggo.DetectLang(body).Iso6393()

	ids, err := index.Search("general", "fox", SearchFilter{Lang: detected}, 10)
	req.NoError(err)
	req.Equal([]int64{1}, ids)

	ids, err = index.Search("general", "fox", SearchFilter{Lang: "zzz"}, 10)
	req.NoError(err)
	req.Empty(ids)
}
