package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chathub/auth"
	"chathub/domain"
	"chathub/errors"
	"chathub/mocks"
	"chathub/observability"
	"chathub/presence"
	"chathub/protocol"
	"chathub/repositories"
	"chathub/rooms"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubSearcher struct {
	ids       []int64
	err       error
	gotFilter repositories.SearchFilter
}

func (s *stubSearcher) Search(room, query string, filter repositories.SearchFilter, limit int) ([]int64, error) {
	s.gotFilter = filter
	return s.ids, s.err
}

type fixture struct {
	handler *Handler
	server  *httptest.Server
	store   *mocks.MockIMessageStore
	tokens  *auth.TokenManager
}

func newFixture(t *testing.T, search Searcher) *fixture {
	t.Helper()
	log := slog.Default()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageStore(ctrl)
	registry := presence.NewRegistry()
	directory := rooms.NewDirectory([]string{"general", "random"}, registry)
	tokens := auth.NewTokenManager([]byte("test-secret"), "chathub", time.Hour)
	monitor := observability.NewMonitor(log)

	handler := NewHandler(log, store, search, directory, tokens, monitor, t.TempDir())
	server := httptest.NewServer(handler.Routes(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	// Seed some occupancy so the listing carries counts.
	require.NoError(t, registry.Put(uuid.New(), "alice", "general"))

	return &fixture{handler: handler, server: server, store: store, tokens: tokens}
}

func TestAPI_ListRooms(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, &stubSearcher{})

	resp, err := http.Get(f.server.URL + "/api/rooms")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var list []protocol.RoomSummary
	req.NoError(json.NewDecoder(resp.Body).Decode(&list))
	req.Equal([]protocol.RoomSummary{
		{Name: "general", UserCount: 1},
		{Name: "random", UserCount: 0},
	}, list)
}

func TestAPI_SearchMessages(t *testing.T) {
	req := require.New(t)

	t.Run("missing parameters", func(t *testing.T) {
		f := newFixture(t, &stubSearcher{})
		for _, url := range []string{
			"/api/messages/search",
			"/api/messages/search?room=general",
			"/api/messages/search?query=hello",
		} {
			resp, err := http.Get(f.server.URL + url)
			req.NoError(err)
			resp.Body.Close()
			req.Equal(http.StatusBadRequest, resp.StatusCode, url)
		}
	})

	t.Run("results resolve through the store", func(t *testing.T) {
		f := newFixture(t, &stubSearcher{ids: []int64{2, 1}})
		f.store.EXPECT().Get(int64(2)).Return(domain.Message{
			ID: 2, Author: "bob", Body: "hello again", Room: "general",
			Kind: domain.KindText, At: time.Now(),
		}, nil)
		f.store.EXPECT().Get(int64(1)).Return(domain.Message{
			ID: 1, Author: "alice", Body: "hello", Room: "general",
			Kind: domain.KindText, At: time.Now(),
		}, nil)

		resp, err := http.Get(f.server.URL + "/api/messages/search?room=general&query=hello")
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)

		var results []protocol.WireMessage
		req.NoError(json.NewDecoder(resp.Body).Decode(&results))
		req.Len(results, 2)
		req.Equal(int64(2), results[0].ID, "newest first, as returned by the index")
	})

	t.Run("missing stored message is skipped", func(t *testing.T) {
		f := newFixture(t, &stubSearcher{ids: []int64{7, 8}})
		f.store.EXPECT().Get(int64(7)).Return(domain.Message{}, errors.ErrStorage)
		f.store.EXPECT().Get(int64(8)).Return(domain.Message{
			ID: 8, Author: "alice", Body: "still here", Room: "general",
			Kind: domain.KindText, At: time.Now(),
		}, nil)

		resp, err := http.Get(f.server.URL + "/api/messages/search?room=general&query=here")
		req.NoError(err)
		defer resp.Body.Close()

		var results []protocol.WireMessage
		req.NoError(json.NewDecoder(resp.Body).Decode(&results))
		req.Len(results, 1)
		req.Equal(int64(8), results[0].ID)
	})

	t.Run("index failure is a server error", func(t *testing.T) {
		f := newFixture(t, &stubSearcher{err: fmt.Errorf("index gone")})
		resp, err := http.Get(f.server.URL + "/api/messages/search?room=general&query=x")
		req.NoError(err)
		resp.Body.Close()
		req.Equal(http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("author and lang filters reach the index", func(t *testing.T) {
		search := &stubSearcher{ids: []int64{1}}
		f := newFixture(t, search)
		f.store.EXPECT().Get(int64(1)).Return(domain.Message{
			ID: 1, Author: "bob", Body: "hola", Room: "general",
			Kind: domain.KindText, At: time.Now(),
		}, nil)

		resp, err := http.Get(f.server.URL +
			"/api/messages/search?room=general&query=hola&author=bob&lang=spa")
		req.NoError(err)
		resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)
		req.Equal(repositories.SearchFilter{Author: "bob", Lang: "spa"}, search.gotFilter)
	})
}

func TestAPI_Upload(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, &stubSearcher{})

	token, err := f.tokens.Generate("alice")
	req.NoError(err)

	buildRequest := func(t *testing.T, authHeader string) *http.Request {
		t.Helper()
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "notes.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("plain text payload"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		request, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/upload", &body)
		require.NoError(t, err)
		request.Header.Set("Content-Type", writer.FormDataContentType())
		if authHeader != "" {
			request.Header.Set("Authorization", authHeader)
		}
		return request
	}

	t.Run("without token", func(t *testing.T) {
		resp, err := http.DefaultClient.Do(buildRequest(t, ""))
		req.NoError(err)
		resp.Body.Close()
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with bad token", func(t *testing.T) {
		resp, err := http.DefaultClient.Do(buildRequest(t, "Bearer garbage"))
		req.NoError(err)
		resp.Body.Close()
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with valid token", func(t *testing.T) {
		resp, err := http.DefaultClient.Do(buildRequest(t, "Bearer "+token))
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)

		var payload map[string]string
		req.NoError(json.NewDecoder(resp.Body).Decode(&payload))
		req.Contains(payload["file_url"], "/uploads/")
		req.Contains(payload["type"], "text/plain")

		// The stored file is immediately served back.
		served, err := http.Get(f.server.URL + payload["file_url"])
		req.NoError(err)
		defer served.Body.Close()
		req.Equal(http.StatusOK, served.StatusCode)
	})
}

func TestAPI_Stats(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, &stubSearcher{})

	resp, err := http.Get(f.server.URL + "/api/stats")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var stats observability.Stats
	req.NoError(json.NewDecoder(resp.Body).Decode(&stats))
}
