package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/domain"
	"atelier/internal/httputil"
	"atelier/internal/service/image"
)

// ImageHandler translates prompts into image-generation collaborator calls.
type ImageHandler struct {
	client *image.Client
	logger *slog.Logger
}

func NewImageHandler(client *image.Client, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{client: client, logger: logger}
}

// Generate forwards {prompt} upstream and returns {image} as a data URL.
// POST /api/image
func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req image.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.client.Generate(r.Context(), &req)
	if err != nil {
		var httpErr domain.HTTPError
		if errors.As(err, &httpErr) {
			handleError(w, err)
			return
		}
		h.logger.Error("image generation failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "image service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
