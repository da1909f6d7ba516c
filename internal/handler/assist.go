package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"atelier/internal/domain"
	"atelier/internal/httputil"
	"atelier/internal/service/llm"
	"atelier/internal/service/notepad"
)

// AssistHandler handles AI dock submissions against the notepad.
type AssistHandler struct {
	notes        *notepad.Service
	registry     *llm.Registry
	defaultModel string
	logger       *slog.Logger
}

func NewAssistHandler(notes *notepad.Service, registry *llm.Registry, defaultModel string, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{
		notes:        notes,
		registry:     registry,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

type assistPayload struct {
	Mode        string `json:"mode"`
	Instruction string `json:"instruction"`
	NoteID      int64  `json:"note_id"`
	Model       string `json:"model"`
}

// Assist runs the AI mutation pipeline for one submission. The request is
// JSON, or multipart form-data when a file is attached (fields: mode,
// instruction, note_id, model, file).
// POST /api/assist
func (h *AssistHandler) Assist(w http.ResponseWriter, r *http.Request) {
	var payload assistPayload
	var attachment *llm.Attachment

	if isMultipart(r) {
		if err := r.ParseMultipartForm(httputil.MaxBodyBytes); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		payload.Mode = r.FormValue("mode")
		payload.Instruction = r.FormValue("instruction")
		payload.Model = r.FormValue("model")
		if raw := r.FormValue("note_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				httputil.RespondError(w, http.StatusBadRequest, "note_id must be an integer")
				return
			}
			payload.NoteID = id
		}

		att, err := formAttachment(r)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Unreadable file attachment")
			return
		}
		attachment = att
	} else {
		if err := httputil.ParseJSON(w, r, &payload); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if payload.Mode == "" {
		payload.Mode = "free"
	}
	model := payload.Model
	if model == "" {
		model = h.defaultModel
	}

	provider, err := h.registry.ProviderFor(model)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.notes.Assist(r.Context(), provider, model, &notepad.AssistRequest{
		Mode:        payload.Mode,
		Instruction: payload.Instruction,
		NoteID:      payload.NoteID,
		Attachment:  attachment,
	})
	if err != nil {
		var httpErr domain.HTTPError
		if errors.As(err, &httpErr) {
			handleError(w, err)
			return
		}
		h.logger.Error("assist failed", "mode", payload.Mode, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "completion service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Modes lists the available AI dock modes with their default instructions.
// GET /api/assist/modes
func (h *AssistHandler) Modes(w http.ResponseWriter, r *http.Request) {
	type modeInfo struct {
		Name        string `json:"name"`
		Instruction string `json:"instruction,omitempty"`
	}
	registry := h.notes.Modes()
	out := make([]modeInfo, 0)
	for _, name := range registry.Names() {
		out = append(out, modeInfo{Name: name, Instruction: registry.DefaultInstruction(name)})
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}
