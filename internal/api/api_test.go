package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhihm19/notes-taker-mcp-server-app/internal/notestore"
)

// testEnv sets up a temp note store and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*notestore.Store, http.Handler) {
	t.Helper()
	store, err := notestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("notestore.New: %v", err)
	}
	router := NewRouter(store, authToken != "", authToken, nil)
	return store, router
}

func createNote(t *testing.T, router http.Handler, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(CreateNoteRequest{Name: name, Content: content})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetNote(t *testing.T) {
	_, router := testEnv(t, "")

	w := createNote(t, router, "hello", "Hello World")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.File != "hello.txt" {
		t.Errorf("file = %q, want hello.txt", created.File)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes/hello", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Content != "Hello World" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestCreateConflict(t *testing.T) {
	_, router := testEnv(t, "")
	_ = createNote(t, router, "dup", "first")

	w := createNote(t, router, "dup", "second")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestCreateInvalidName(t *testing.T) {
	_, router := testEnv(t, "")
	w := createNote(t, router, "   ", "content")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateTooLarge(t *testing.T) {
	_, router := testEnv(t, "")
	w := createNote(t, router, "big", strings.Repeat("x", notestore.MaxNoteSize+1))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestGetMissingNote(t *testing.T) {
	_, router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/notes/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAppendNote(t *testing.T) {
	_, router := testEnv(t, "")
	_ = createNote(t, router, "log", "first line")

	body, _ := json.Marshal(AppendNoteRequest{Content: "second line"})
	req := httptest.NewRequest(http.MethodPost, "/notes/log/append", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("append status = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/log", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var got NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Content != "first line\nsecond line" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestAppendMissingNote(t *testing.T) {
	_, router := testEnv(t, "")
	body, _ := json.Marshal(AppendNoteRequest{Content: "x"})
	req := httptest.NewRequest(http.MethodPost, "/notes/ghost/append", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteNote(t *testing.T) {
	_, router := testEnv(t, "")
	_ = createNote(t, router, "gone", "x")

	req := httptest.NewRequest(http.MethodDelete, "/notes/gone", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/notes/gone", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestListNotesSorted(t *testing.T) {
	_, router := testEnv(t, "")
	_ = createNote(t, router, "zebra", "z")
	_ = createNote(t, router, "alpha", "a")

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var got NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Total != 2 || len(got.Notes) != 2 {
		t.Fatalf("list = %+v", got)
	}
	if got.Notes[0] != "alpha.txt" || got.Notes[1] != "zebra.txt" {
		t.Errorf("notes = %v, want sorted", got.Notes)
	}
}

func TestSearchNotes(t *testing.T) {
	_, router := testEnv(t, "")
	_ = createNote(t, router, "MyNotes", "x")
	_ = createNote(t, router, "todo", "y")

	req := httptest.NewRequest(http.MethodGet, "/search?q=mynotes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var got NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Total != 1 || got.Notes[0] != "MyNotes.txt" {
		t.Errorf("search = %+v", got)
	}
}

func TestTraversalNameStaysSanitized(t *testing.T) {
	store, router := testEnv(t, "")
	w := createNote(t, router, "../../../etc/passwd", "safe")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if strings.ContainsAny(created.File, "/\\") {
		t.Errorf("file = %q contains separators", created.File)
	}
	names, _ := store.ListAll()
	if len(names) != 1 {
		t.Errorf("notes = %v, want one sanitized file inside root", names)
	}
}

func TestAuthToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
