package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"chathub/contract"
	"chathub/domain"
	errs "chathub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// Key layout. The zero-padded id keeps prefix scans in chronological order
// (ids are assigned monotonically), and msgref resolves an id back to its
// room for the read/reaction relations.
//
//	msg:{room}:{id:019d}        -> MessageRecord (JSON)
//	msgref:{id:019d}            -> room name
//	read:{id:019d}:{identity}   -> unix nanos
//	react:{id:019d}:{identity}  -> reactionRecord (JSON)
//	msg:seq                     -> big-endian counter
const (
	msgKeyFmt   = "msg:%s:%019d"
	refKeyFmt   = "msgref:%019d"
	readKeyFmt  = "read:%019d:%s"
	reactKeyFmt = "react:%019d:%s"
	seqKey      = "msg:seq"
)

// MessageRecord is the persisted shape of a message. Exported so the viewer
// tool can decode the store without linking the repository internals.
type MessageRecord struct {
	ID      int64       `json:"id"`
	Room    string      `json:"room"`
	Author  string      `json:"author"`
	Body    string      `json:"body"`
	Kind    domain.Kind `json:"kind"`
	FileRef string      `json:"file_ref,omitempty"`
	At      int64       `json:"at"` // unix nanos, UTC
}

// ToDomain converts a persisted record without aggregate annotations.
func (r MessageRecord) ToDomain() domain.Message {
	return domain.Message{
		ID:      r.ID,
		Author:  r.Author,
		Body:    r.Body,
		Room:    r.Room,
		Kind:    r.Kind,
		FileRef: r.FileRef,
		At:      time.Unix(0, r.At).UTC(),
	}
}

type reactionRecord struct {
	Emoji string `json:"emoji"`
	At    int64  `json:"at"`
}

type MessageRepository struct {
	db    *badger.DB
	index *SearchIndex // optional, nil disables search indexing
	log   *slog.Logger
}

func NewMessageRepository(db *badger.DB, index *SearchIndex, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, index: index, log: log}
}

var _ contract.IMessageStore = (*MessageRepository)(nil)

// Append persists a message, assigning the next id from a transactional
// counter so ids are strictly increasing and unique across all rooms.
// Indexing failures are logged, not surfaced: search is advisory, the
// durable write is not.
func (m *MessageRepository) Append(req contract.AppendRequest) (domain.Message, error) {
	record := MessageRecord{
		Room:    req.Room,
		Author:  req.Author,
		Body:    req.Body,
		Kind:    req.Kind,
		FileRef: req.FileRef,
		At:      time.Now().UTC().UnixNano(),
	}

	err := m.db.Update(func(txn *badger.Txn) error {
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		record.ID = id

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		key := fmt.Sprintf(msgKeyFmt, record.Room, record.ID)
		if err := txn.Set([]byte(key), data); err != nil {
			return err
		}
		ref := fmt.Sprintf(refKeyFmt, record.ID)
		return txn.Set([]byte(ref), []byte(record.Room))
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: append: %v", errs.ErrStorage, err)
	}

	msg := record.ToDomain()
	if m.index != nil {
		if err := m.index.Index(msg); err != nil {
			m.log.Warn("search indexing failed", "message_id", msg.ID, "error", err)
		}
	}
	return msg, nil
}

// History returns at most limit messages for a room in chronological order.
// The scan runs newest-first on the padded keys and is reversed before
// return; each message is annotated with its read count and reaction set.
func (m *MessageRepository) History(room string, limit int) ([]domain.Message, error) {
	var messages []domain.Message

	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", room))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible id, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			var record MessageRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			messages = append(messages, annotate(txn, record.ToDomain()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: history %q: %v", errs.ErrStorage, room, err)
	}

	return lo.Reverse(messages), nil
}

// RecordRead inserts a (message, identity) read receipt. The second call by
// the same identity reports AlreadyRead and changes nothing, so callers can
// decide whether an increment broadcast is due.
func (m *MessageRepository) RecordRead(messageID int64, identity string) (contract.ReadResult, error) {
	var result contract.ReadResult

	err := m.db.Update(func(txn *badger.Txn) error {
		room, err := roomOf(txn, messageID)
		if err != nil {
			return err
		}
		result.Room = room

		count, err := countPrefix(txn, fmt.Sprintf("read:%019d:", messageID))
		if err != nil {
			return err
		}

		key := []byte(fmt.Sprintf(readKeyFmt, messageID, identity))
		if _, err := txn.Get(key); err == nil {
			result.AlreadyRead = true
			result.ReadCount = count
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		result.ReadCount = count + 1
		stamp := make([]byte, 8)
		binary.BigEndian.PutUint64(stamp, uint64(time.Now().UTC().UnixNano()))
		return txn.Set(key, stamp)
	})
	if err != nil {
		return contract.ReadResult{}, fmt.Errorf("%w: record read %d: %v", errs.ErrStorage, messageID, err)
	}
	return result, nil
}

// RecordReaction upserts the identity's reaction on a message. A later call
// by the same identity overwrites its prior emoji choice; re-asserting the
// same emoji keeps the original attachment time. Returns the distinct emoji
// set now present, ordered by first attachment.
func (m *MessageRepository) RecordReaction(messageID int64, identity, emoji string) (contract.ReactionResult, error) {
	var result contract.ReactionResult

	err := m.db.Update(func(txn *badger.Txn) error {
		room, err := roomOf(txn, messageID)
		if err != nil {
			return err
		}
		result.Room = room

		own := reactionRecord{Emoji: emoji, At: time.Now().UTC().UnixNano()}
		key := []byte(fmt.Sprintf(reactKeyFmt, messageID, identity))
		if item, err := txn.Get(key); err == nil {
			var prev reactionRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return err
			}
			if prev.Emoji == emoji {
				own = prev
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		data, err := json.Marshal(own)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Merge the caller's own reaction explicitly instead of relying on
		// iterator visibility of this txn's pending write.
		others, err := reactionsOf(txn, messageID, identity)
		if err != nil {
			return err
		}
		result.Emojis = distinctEmojis(append(others, own))
		return nil
	})
	if err != nil {
		return contract.ReactionResult{}, fmt.Errorf("%w: record reaction %d: %v", errs.ErrStorage, messageID, err)
	}
	return result, nil
}

// Get fetches one message with aggregate annotations.
func (m *MessageRepository) Get(messageID int64) (domain.Message, error) {
	var msg domain.Message

	err := m.db.View(func(txn *badger.Txn) error {
		room, err := roomOf(txn, messageID)
		if err != nil {
			return err
		}
		item, err := txn.Get([]byte(fmt.Sprintf(msgKeyFmt, room, messageID)))
		if err != nil {
			return err
		}
		var record MessageRecord
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return err
		}
		msg = annotate(txn, record.ToDomain())
		return nil
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: get %d: %v", errs.ErrStorage, messageID, err)
	}
	return msg, nil
}

func nextID(txn *badger.Txn) (int64, error) {
	var id int64 = 1
	item, err := txn.Get([]byte(seqKey))
	switch err {
	case nil:
		err = item.Value(func(val []byte) error {
			id = int64(binary.BigEndian.Uint64(val)) + 1
			return nil
		})
		if err != nil {
			return 0, err
		}
	case badger.ErrKeyNotFound:
	default:
		return 0, err
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, uint64(id))
	return id, txn.Set([]byte(seqKey), next)
}

func roomOf(txn *badger.Txn, messageID int64) (string, error) {
	item, err := txn.Get([]byte(fmt.Sprintf(refKeyFmt, messageID)))
	if err != nil {
		return "", err
	}
	var room string
	err = item.Value(func(val []byte) error {
		room = string(val)
		return nil
	})
	return room, err
}

func annotate(txn *badger.Txn, msg domain.Message) domain.Message {
	if count, err := countPrefix(txn, fmt.Sprintf("read:%019d:", msg.ID)); err == nil {
		msg.ReadCount = count
	}
	if reactions, err := reactionsOf(txn, msg.ID, ""); err == nil && len(reactions) > 0 {
		msg.Reactions = distinctEmojis(reactions)
	}
	return msg
}

func countPrefix(txn *badger.Txn, prefix string) (int, error) {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	count := 0
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		count++
	}
	return count, nil
}

// reactionsOf collects the per-identity reaction records of a message,
// skipping excludeIdentity when non-empty.
func reactionsOf(txn *badger.Txn, messageID int64, excludeIdentity string) ([]reactionRecord, error) {
	prefixStr := fmt.Sprintf("react:%019d:", messageID)
	prefix := []byte(prefixStr)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var records []reactionRecord
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		identity := strings.TrimPrefix(string(item.Key()), prefixStr)
		if excludeIdentity != "" && identity == excludeIdentity {
			continue
		}
		var record reactionRecord
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// distinctEmojis orders by first attachment time and deduplicates.
func distinctEmojis(records []reactionRecord) []string {
	sorted := make([]reactionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].At == sorted[j].At {
			return sorted[i].Emoji < sorted[j].Emoji
		}
		return sorted[i].At < sorted[j].At
	})
	return lo.Uniq(lo.Map(sorted, func(r reactionRecord, _ int) string {
		return r.Emoji
	}))
}
