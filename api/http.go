// Package api is the read-only HTTP surface plus the upload endpoint:
// thin wrappers over the directory, the search index and the message
// store. All responses are JSON; errors carry an "error" field.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chathub/auth"
	"chathub/contract"
	"chathub/observability"
	"chathub/protocol"
	"chathub/repositories"
	"chathub/rooms"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	log        *slog.Logger
	store      contract.IMessageStore
	search     Searcher
	directory  *rooms.Directory
	tokens     *auth.TokenManager
	monitor    *observability.Monitor
	uploadsDir string
}

// Searcher is the slice of the search index the API needs.
type Searcher interface {
	Search(room, query string, filter repositories.SearchFilter, limit int) ([]int64, error)
}

func NewHandler(log *slog.Logger, store contract.IMessageStore, search Searcher,
	directory *rooms.Directory, tokens *auth.TokenManager,
	monitor *observability.Monitor, uploadsDir string) *Handler {
	return &Handler{
		log:        log,
		store:      store,
		search:     search,
		directory:  directory,
		tokens:     tokens,
		monitor:    monitor,
		uploadsDir: uploadsDir,
	}
}

// Routes builds the mux, mounting the websocket endpoint alongside the
// HTTP surface.
func (h *Handler) Routes(ws http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms", h.listRooms)
	mux.HandleFunc("GET /api/messages/search", h.searchMessages)
	mux.HandleFunc("POST /api/upload", h.requireToken(h.upload))
	mux.HandleFunc("GET /api/stats", h.stats)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(h.uploadsDir))))
	mux.HandleFunc("/ws", ws)
	return mux
}

func (h *Handler) listRooms(w http.ResponseWriter, _ *http.Request) {
	infos := h.directory.List()
	list := make([]protocol.RoomSummary, 0, len(infos))
	for _, info := range infos {
		list = append(list, protocol.RoomSummary{
			Name:      info.Name,
			UserCount: info.UserCount,
		})
	}
	h.writeJSON(w, http.StatusOK, list)
}

// searchMessages is a case-insensitive substring query over one room's
// bodies, newest first, capped server-side regardless of the limit param.
// The optional author and lang parameters narrow the result further.
func (h *Handler) searchMessages(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	query := r.URL.Query().Get("query")
	if room == "" || query == "" {
		h.writeError(w, http.StatusBadRequest, "Room and query parameters required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := repositories.SearchFilter{
		Author: r.URL.Query().Get("author"),
		Lang:   r.URL.Query().Get("lang"),
	}

	ids, err := h.search.Search(room, query, filter, limit)
	if err != nil {
		h.log.Error("search failed", "room", room, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	results := make([]protocol.WireMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := h.store.Get(id)
		if err != nil {
			h.log.Warn("indexed message missing from store", "message_id", id, "error", err)
			continue
		}
		results = append(results, protocol.FromMessage(msg))
	}
	h.writeJSON(w, http.StatusOK, results)
}

// upload stores a multipart file under a random name and returns the
// reference clients pass back as an opaque file_url on send_message.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = filepath.Ext(header.Filename)
	}
	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.uploadsDir, name))
	if err != nil {
		h.log.Error("upload create failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.log.Error("upload write failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"file_url": "/uploads/" + name,
		"type":     mtype.String(),
	})
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// requireToken guards mutating endpoints with the Bearer token issued at
// join time.
func (h *Handler) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			h.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := h.tokens.Parse(token); err != nil {
			h.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		h.log.Debug("response encode failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
