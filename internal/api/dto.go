package api

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// AppendNoteRequest is the request body for appending to a note.
type AppendNoteRequest struct {
	Content string `json:"content"`
}

// NoteResponse is the response for a single note.
type NoteResponse struct {
	File    string `json:"file"`
	Content string `json:"content,omitempty"`
}

// NoteListResponse wraps filename listings.
type NoteListResponse struct {
	Notes []string `json:"notes"`
	Total int      `json:"total"`
}
