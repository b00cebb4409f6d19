// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/abhihm19/notes-taker-mcp-server-app/internal/notestore"
)

// TestStore creates a note store rooted in a temporary directory that is
// automatically cleaned up.
func TestStore(t *testing.T) *notestore.Store {
	t.Helper()
	store, err := notestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// DiscardLogger returns a logger that drops everything, for components that
// require one.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
