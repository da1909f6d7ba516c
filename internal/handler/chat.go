package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"atelier/internal/httputil"
	"atelier/internal/service/llm"
)

// ChatHandler translates chat requests into single-shot completion calls.
type ChatHandler struct {
	registry     *llm.Registry
	defaultModel string
	logger       *slog.Logger
}

func NewChatHandler(registry *llm.Registry, defaultModel string, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		registry:     registry,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

type chatPayload struct {
	Messages []llm.Message `json:"messages"`
	Model    string        `json:"model"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat forwards role-tagged messages to the completion collaborator and
// returns the single text reply. Two transport shapes: JSON body {messages},
// or multipart form-data with a "messages" JSON field and a "file" field.
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload chatPayload
	var attachment *llm.Attachment

	if isMultipart(r) {
		if err := r.ParseMultipartForm(httputil.MaxBodyBytes); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		raw := r.FormValue("messages")
		if raw == "" {
			httputil.RespondError(w, http.StatusBadRequest, "messages field is required")
			return
		}
		if err := json.Unmarshal([]byte(raw), &payload.Messages); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "messages field is not valid JSON")
			return
		}
		payload.Model = r.FormValue("model")

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

	if len(payload.Messages) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "messages must not be empty")
		return
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

	resp, err := provider.Complete(r.Context(), &llm.CompleteRequest{
		Model:      model,
		Messages:   payload.Messages,
		Attachment: attachment,
	})
	if err != nil {
		h.logger.Error("chat completion failed", "model", model, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "completion service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chatResponse{Reply: resp.Text})
}
