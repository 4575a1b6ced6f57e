package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"chathub/domain"
	errs "chathub/errors"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
)

// MaxSearchResults caps every search regardless of the requested limit.
const MaxSearchResults = 20

// SearchIndex maintains a Bluge index over message bodies. Bodies are
// indexed as a single lowercased keyword term so a wildcard query gives
// case-insensitive substring semantics; no kind is excluded, system
// messages have to stay searchable for external compatibility.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

// SearchFilter narrows a search beyond room and body substring.
// Zero values mean no filtering.
type SearchFilter struct {
	Author string
	Lang   string // ISO 639-3 code, as indexed
}

// Index adds or replaces one message. The body language is detected
// best effort and indexed as a filterable facet.
func (s *SearchIndex) Index(m domain.Message) error {
	lang := whatlanggo.DetectLang(m.Body)

	doc := bluge.NewDocument(strconv.FormatInt(m.ID, 10)).
		AddField(bluge.NewKeywordField("room", m.Room)).
		AddField(bluge.NewKeywordField("body", strings.ToLower(m.Body))).
		AddField(bluge.NewKeywordField("author", m.Author)).
		AddField(bluge.NewKeywordField("lang", lang.Iso6393())).
		AddField(bluge.NewNumericField("at", float64(m.At.UnixNano())))

	return s.writer.Update(doc.ID(), doc)
}

// Search returns message ids whose body contains the query substring,
// scoped to one room and the optional filter, newest first, capped at
// MaxSearchResults.
func (s *SearchIndex) Search(room, query string, filter SearchFilter, limit int) ([]int64, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	reader, err := s.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: search reader: %v", errs.ErrStorage, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Warn("closing search reader failed", "error", err)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(room).SetField("room")).
		AddMust(bluge.NewWildcardQuery("*" + strings.ToLower(query) + "*").SetField("body"))
	if filter.Author != "" {
		q.AddMust(bluge.NewTermQuery(filter.Author).SetField("author"))
	}
	if filter.Lang != "" {
		q.AddMust(bluge.NewTermQuery(filter.Lang).SetField("lang"))
	}

	request := bluge.NewTopNSearch(limit, q).SortBy([]string{"-at"})
	iterator, err := reader.Search(context.Background(), request)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", errs.ErrStorage, err)
	}

	var ids []int64
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: search iteration: %v", errs.ErrStorage, err)
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := strconv.ParseInt(string(value), 10, 64); parseErr == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("%w: search visit: %v", errs.ErrStorage, err)
		}
	}
	return ids, nil
}

// Close flushes and closes the underlying writer.
func (s *SearchIndex) Close() error {
	return s.writer.Close()
}
