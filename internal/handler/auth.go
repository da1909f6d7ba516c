package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/auth"
	"atelier/internal/httputil"
)

// AuthHandler forwards credential flows to the authentication collaborator.
type AuthHandler struct {
	client *auth.Client
	logger *slog.Logger
}

func NewAuthHandler(client *auth.Client, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{client: client, logger: logger}
}

// SignIn exchanges email+password for a session
// POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := httputil.ParseJSON(w, r, &creds); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.client.SignIn(r.Context(), &creds)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}

// SignUp registers a new account
// POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := httputil.ParseJSON(w, r, &creds); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.client.SignUp(r.Context(), &creds)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}
