package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/httputil"
	"atelier/internal/models"
	"atelier/internal/service/notepad"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	notes  *notepad.Service
	logger *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(notes *notepad.Service, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{notes: notes, logger: logger}
}

// ListFolders returns the full folder list, built-ins first
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.notes.Folders(r.Context()))
}

// CreateFolder creates a user folder from raw input; a leading emoji becomes
// the folder glyph
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.notes.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// DeleteFolder removes a user folder; built-ins are rejected and orphaned
// notes fall back to the inbox
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	if err := h.notes.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
