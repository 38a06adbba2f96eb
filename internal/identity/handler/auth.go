package handler

import (
	"net/http"

	"github.com/attendly/attendance-service/internal/identity/service"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// AuthHandler exposes login and the current-principal lookup.
type AuthHandler struct {
	auth   *service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: log}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Me handles GET /auth/me: it simply echoes the principal the
// AuthMiddleware has already verified, without another database round
// trip, since everything the client needs (id, role, team) already rode
// along on the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{
		"userId": principal.UserID,
		"role":   principal.Role,
		"teamId": principal.TeamID,
	})
}
