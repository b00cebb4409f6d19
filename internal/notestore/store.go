// Package notestore implements the confined flat-file note storage.
//
// Every note lives directly inside a single storage root as
// {sanitizedName}.txt. Caller-supplied identifiers go through two
// independent defenses before any filesystem access: character-whitelist
// sanitization and a resolved-path confinement check against the root.
package notestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abhihm19/notes-taker-mcp-server-app/internal/apperr"
)

const (
	// MaxNoteSize is the ceiling for a note's content in UTF-8 bytes.
	MaxNoteSize = 1 << 20

	// Ext is the fixed extension for note files.
	Ext = ".txt"

	maxNameLength = 255
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// SanitizeName maps a caller-supplied identifier to a filesystem-safe name.
// Characters outside [a-zA-Z0-9-_] become underscores and the result is
// capped at 255 characters. Blank input returns apperr.ErrInvalidName; it
// must never silently become a valid name.
func SanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperr.ErrInvalidName
	}
	sanitized := unsafeChars.ReplaceAllString(name, "_")
	if len(sanitized) > maxNameLength {
		sanitized = sanitized[:maxNameLength]
	}
	return sanitized, nil
}

// Store owns one storage root directory and performs all note operations.
// The root is resolved once at construction and immutable afterwards.
type Store struct {
	root string // absolute, symlink-resolved path to the notes directory
}

// New creates a Store rooted at dir, creating the directory (and missing
// parents) if needed.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("notestore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("notestore: create root: %w", err)
	}
	// Canonicalize so confinement compares real paths, not symlink aliases.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("notestore: canonicalize root: %w", err)
	}
	return &Store{root: resolved}, nil
}

// Root returns the absolute storage root path.
func (s *Store) Root() string {
	return s.root
}

// resolve joins a sanitized name with the root and verifies the resolved
// path is still a direct child of it. Sanitization already forbids path
// separators; this check stays mandatory regardless.
func (s *Store) resolve(sanitized string) (string, error) {
	joined := filepath.Join(s.root, sanitized+Ext)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrInvalidPath, sanitized)
	}
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", apperr.ErrInvalidPath, sanitized)
	}
	return abs, nil
}

// Search returns the filenames of notes whose name contains term,
// case-insensitively, in directory enumeration order. An empty term
// matches everything. A missing root yields an empty result, not an error.
func (s *Store) Search(term string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("notestore: search: %w", err)
	}
	needle := strings.ToLower(term)
	matches := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			matches = append(matches, e.Name())
		}
	}
	return matches, nil
}

// ListAll returns the filenames of all notes, sorted lexicographically.
// os.ReadDir guarantees the sort order. A missing root yields an empty
// result.
func (s *Store) ListAll() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("notestore: list: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Read returns the full UTF-8 content of the named note.
func (s *Store) Read(name string) (string, error) {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	path, err := s.resolve(sanitized)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, sanitized)
		}
		return "", fmt.Errorf("notestore: read %s: %w", sanitized, err)
	}
	return string(data), nil
}

// Create writes content as a new note and returns the created filename.
// It fails with apperr.ErrAlreadyExists if the note is present (never
// overwrites) and with apperr.ErrTooLarge when content exceeds MaxNoteSize.
func (s *Store) Create(name, content string) (string, error) {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	if len(content) > MaxNoteSize {
		return "", fmt.Errorf("%w: %d bytes", apperr.ErrTooLarge, len(content))
	}
	path, err := s.resolve(sanitized)
	if err != nil {
		return "", err
	}
	// O_EXCL makes the existence check and the create a single syscall.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, sanitized)
		}
		return "", fmt.Errorf("notestore: create %s: %w", sanitized, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("notestore: write %s: %w", sanitized, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("notestore: close %s: %w", sanitized, err)
	}
	return sanitized + Ext, nil
}

// Delete removes the named note and returns its sanitized name.
func (s *Store) Delete(name string) (string, error) {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	path, err := s.resolve(sanitized)
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, sanitized)
		}
		return "", fmt.Errorf("notestore: delete %s: %w", sanitized, err)
	}
	return sanitized, nil
}

// Append adds a line separator followed by content to the end of an
// existing note and returns its sanitized name. It never creates the note,
// and fails without writing when existing size plus new content would
// exceed MaxNoteSize.
func (s *Store) Append(name, content string) (string, error) {
	sanitized, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	path, err := s.resolve(sanitized)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, sanitized)
		}
		return "", fmt.Errorf("notestore: stat %s: %w", sanitized, err)
	}
	if info.Size()+int64(len(content)) > MaxNoteSize {
		return "", fmt.Errorf("%w: %d+%d bytes", apperr.ErrTooLarge, info.Size(), len(content))
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, sanitized)
		}
		return "", fmt.Errorf("notestore: open %s: %w", sanitized, err)
	}
	if _, err := f.WriteString("\n" + content); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("notestore: append %s: %w", sanitized, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("notestore: close %s: %w", sanitized, err)
	}
	return sanitized, nil
}
