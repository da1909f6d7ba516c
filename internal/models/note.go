package models

import (
	"strings"
	"time"
)

// InboxFolderID is the folder every note without an explicit folder resolves to.
const InboxFolderID = "inbox"

type Note struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Pinned   bool      `json:"pinned"`
	Favorite bool      `json:"favorite"`
	Done     bool      `json:"done"`
	Updated  time.Time `json:"updated"`
	FolderID string    `json:"folder_id,omitempty"`
}

// DisplayFolderID resolves the folder a note belongs to for filtering and
// display. An absent folder id always means the inbox.
func (n *Note) DisplayFolderID() string {
	if n.FolderID == "" {
		return InboxFolderID
	}
	return n.FolderID
}

// MatchesSearch reports whether the case-folded search text occurs in the
// note's title or content. Empty search matches everything.
func (n *Note) MatchesSearch(search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	haystack := strings.ToLower(n.Title + " " + n.Content)
	return strings.Contains(haystack, q)
}

type CreateNoteRequest struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	FolderID string `json:"folder_id,omitempty"`
}

// UpdateNoteRequest carries a partial update. Nil fields are left untouched;
// the Updated stamp advances regardless.
type UpdateNoteRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Pinned   *bool   `json:"pinned,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
	Done     *bool   `json:"done,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

type NoteListResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}
