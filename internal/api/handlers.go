package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhihm19/notes-taker-mcp-server-app/internal/apperr"
	"github.com/abhihm19/notes-taker-mcp-server-app/internal/notestore"
)

// maxBodySize bounds request bodies: note content tops out at 1 MiB, plus
// slack for JSON framing and escaping.
const maxBodySize = 2 << 20

// Handler holds API route handlers over the note store.
type Handler struct {
	store *notestore.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *notestore.Store) *Handler {
	return &Handler{store: store}
}

// writeStoreError maps a note store sentinel to an HTTP response.
func writeStoreError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note name"))
	case errors.Is(err, apperr.ErrInvalidPath):
		slog.Warn("path traversal attempt", slog.String("name", name))
		writeJSON(w, http.StatusBadRequest, errorBody("invalid file path"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("note already exists"))
	case errors.Is(err, apperr.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("note content exceeds maximum size of 1MB"))
	default:
		slog.Error("note operation failed", slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListAll()
	if err != nil {
		writeStoreError(w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: names, Total: len(names)})
}

// Search handles GET /search?q=term.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	matches, err := h.store.Search(q)
	if err != nil {
		writeStoreError(w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: matches, Total: len(matches)})
}

// GetNote handles GET /notes/{name}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := h.store.Read(name)
	if err != nil {
		writeStoreError(w, name, err)
		return
	}
	sanitized, _ := notestore.SanitizeName(name)
	writeJSON(w, http.StatusOK, NoteResponse{File: sanitized + notestore.Ext, Content: content})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	created, err := h.store.Create(req.Name, req.Content)
	if err != nil {
		writeStoreError(w, req.Name, err)
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{File: created})
}

// AppendNote handles POST /notes/{name}/append.
func (h *Handler) AppendNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	name := chi.URLParam(r, "name")
	var req AppendNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	appended, err := h.store.Append(name, req.Content)
	if err != nil {
		writeStoreError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{File: appended + notestore.Ext})
}

// DeleteNote handles DELETE /notes/{name}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := h.store.Delete(name); err != nil {
		writeStoreError(w, name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
