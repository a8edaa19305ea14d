package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
)

const maxBodySize = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" masq:"secret"`
}

// AuthHandler serves the portal session endpoints
type AuthHandler struct {
	authUC interfaces.AuthUseCase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUC interfaces.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		ctxlog.From(ctx).Warn("Invalid login request", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	writeJSON(ctx, w, http.StatusOK, h.authUC.Login(ctx, req.Email, req.Password))
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.authUC.CheckAuthentication(r.Context()))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.authUC.Logout(r.Context()))
}
