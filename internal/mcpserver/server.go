// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the note operations as tools over stdio transport.
//
// Tool results keep the legacy text protocol: success and expected failure
// both come back as plain strings ("Note created: ...", "Error: Invalid
// note name", ...). Callers pattern-match on the leading text. Only a
// malformed request (missing required argument) produces an MCP error
// result.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhihm19/notes-taker-mcp-server-app/internal/apperr"
	"github.com/abhihm19/notes-taker-mcp-server-app/internal/notestore"
)

// Server wraps the MCP server with the note tools.
type Server struct {
	mcp    *server.MCPServer
	store  *notestore.Store
	logger *slog.Logger
}

// New creates a new MCP server with all six note tools registered.
func New(store *notestore.Store, logger *slog.Logger) *Server {
	s := &Server{store: store, logger: logger}

	s.mcp = server.NewMCPServer(
		"notes-taker",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by filename. Returns a list of note filenames that contain the given search term. Useful for locating existing notes."),
		mcp.WithString("notesName", mcp.Description("Partial or full note filename to search")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("Lists all available notes in the notes directory. Returns filenames of all notes."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Reads and returns the full content of a note file. Useful for viewing what's written in a note."),
		mcp.WithString("notesName", mcp.Required(), mcp.Description("Name of the note to read (without extension)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Creates a new note file with the given name and content. Fails if the note already exists."),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Content to write into the note")),
		mcp.WithString("notesName", mcp.Required(), mcp.Description("Name of the note (without extension)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Deletes a note file by name. Returns success or failure message."),
		mcp.WithString("notesName", mcp.Required(), mcp.Description("Name of the note to delete (without extension)")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("append_to_note",
		mcp.WithDescription("Appends content to an existing note file. Fails if the note does not exist."),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Content to append to the note")),
		mcp.WithString("notesName", mcp.Required(), mcp.Description("Name of the note to update (without extension)")),
	), s.appendToNote)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout and blocks until the
// stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// Listen serves MCP over the given streams until ctx is cancelled or the
// input stream closes.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// sanitizedOrRaw returns the sanitized form of name for use in result
// messages, falling back to the raw input when sanitization itself failed.
func sanitizedOrRaw(name string) string {
	if sanitized, err := notestore.SanitizeName(name); err == nil {
		return sanitized
	}
	return name
}

func (s *Server) searchNotes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := ""
	if v, err := req.RequireString("notesName"); err == nil {
		term = v
	}
	matches, err := s.store.Search(term)
	if err != nil {
		s.logger.Error("search failed", slog.String("term", term), slog.String("error", err.Error()))
		return mcp.NewToolResultText("Error reading note: " + err.Error()), nil
	}
	s.logger.Info("search", slog.String("term", term), slog.Int("matches", len(matches)))
	out, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.ListAll()
	if err != nil {
		s.logger.Error("list failed", slog.String("error", err.Error()))
		return mcp.NewToolResultText("Error reading note: " + err.Error()), nil
	}
	s.logger.Info("list", slog.Int("total", len(names)))
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) readNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("notesName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.store.Read(name)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidName):
			s.logger.Warn("invalid note name", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid note name"), nil
		case errors.Is(err, apperr.ErrInvalidPath):
			s.logger.Warn("path traversal attempt", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid file path"), nil
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultText("Note not found: " + sanitizedOrRaw(name)), nil
		default:
			s.logger.Error("read failed", slog.String("name", name), slog.String("error", err.Error()))
			return mcp.NewToolResultText("Error reading note: " + err.Error()), nil
		}
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) createNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("notesName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	created, err := s.store.Create(name, content)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidName):
			s.logger.Warn("invalid note name", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid note name"), nil
		case errors.Is(err, apperr.ErrInvalidPath):
			s.logger.Warn("path traversal attempt", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid file path"), nil
		case errors.Is(err, apperr.ErrAlreadyExists):
			return mcp.NewToolResultText("Note already exists: " + sanitizedOrRaw(name) + notestore.Ext), nil
		case errors.Is(err, apperr.ErrTooLarge):
			return mcp.NewToolResultText("Error: Note content exceeds maximum size of 1MB"), nil
		default:
			s.logger.Error("create failed", slog.String("name", name), slog.String("error", err.Error()))
			return mcp.NewToolResultText("Error creating note: " + err.Error()), nil
		}
	}
	s.logger.Info("note created", slog.String("file", created))
	return mcp.NewToolResultText("Note created: " + created), nil
}

func (s *Server) deleteNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("notesName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deleted, err := s.store.Delete(name)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidName):
			s.logger.Warn("invalid note name", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid note name"), nil
		case errors.Is(err, apperr.ErrInvalidPath):
			s.logger.Warn("path traversal attempt", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid file path"), nil
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultText("Note not found: " + sanitizedOrRaw(name)), nil
		default:
			s.logger.Error("delete failed", slog.String("name", name), slog.String("error", err.Error()))
			return mcp.NewToolResultText("Could not delete note: " + sanitizedOrRaw(name)), nil
		}
	}
	s.logger.Info("note deleted", slog.String("name", deleted))
	return mcp.NewToolResultText("Note deleted: " + deleted), nil
}

func (s *Server) appendToNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("notesName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appended, err := s.store.Append(name, content)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidName):
			s.logger.Warn("invalid note name", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid note name"), nil
		case errors.Is(err, apperr.ErrInvalidPath):
			s.logger.Warn("path traversal attempt", slog.String("name", name))
			return mcp.NewToolResultText("Error: Invalid file path"), nil
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultText("Note not found: " + sanitizedOrRaw(name)), nil
		case errors.Is(err, apperr.ErrTooLarge):
			return mcp.NewToolResultText("Error: Adding this content would exceed maximum note size of 1MB"), nil
		default:
			s.logger.Error("append failed", slog.String("name", name), slog.String("error", err.Error()))
			return mcp.NewToolResultText("Error writing to note: " + err.Error()), nil
		}
	}
	s.logger.Info("note appended", slog.String("name", appended))
	return mcp.NewToolResultText("Content added to note: " + appended), nil
}
