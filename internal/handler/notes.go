package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"atelier/internal/httputil"
	"atelier/internal/models"
	"atelier/internal/service/notepad"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	notes  *notepad.Service
	logger *slog.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *notepad.Service, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// ListNotes returns the visible note list for a folder selector, search text
// and sort order
// GET /api/notes?folder=all&search=&sort=updated_desc
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	selector := q.Get("folder")
	if selector == "" {
		selector = notepad.SelectorAll
	}

	visible := h.notes.Notes(r.Context(), selector, q.Get("search"), notepad.ParseSortOrder(q.Get("sort")))

	httputil.RespondJSON(w, http.StatusOK, models.NoteListResponse{
		Notes: visible,
		Total: len(visible),
	})
}

// CreateNote creates a new note at the head of the list and makes it active
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.CreateNote(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves a single note
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := h.notes.Note(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// UpdateNote merges partial fields into a note; the Updated stamp always
// advances, even for an empty field set
// PATCH /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req models.UpdateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// DeleteNote removes a note
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.notes.DeleteNote(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateNote marks a note as the active selection for AI actions
// POST /api/notes/{id}/activate
func (h *NoteHandler) ActivateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.notes.SetActiveNote(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *NoteHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw, ok := PathParam(w, r, "id", "Note ID")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Note ID must be an integer")
		return 0, false
	}
	return id, true
}
