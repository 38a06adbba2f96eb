package handler

import (
	"net/http"
	"strconv"

	"github.com/attendly/attendance-service/internal/audit/service"
	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// AuditHandler exposes the admin-only read endpoint over the audit log,
// the operational side-channel for STALE_OPEN_SESSION and friends.
type AuditHandler struct {
	recorder *service.Recorder
	logger   *logger.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(recorder *service.Recorder, log *logger.Logger) *AuditHandler {
	return &AuditHandler{recorder: recorder, logger: log}
}

// List handles GET /admin/audit?limit=N.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	if principal.Role != policy.RoleAdmin {
		httputil.Error(w, errors.Forbidden(""))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.recorder.List(r.Context(), limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}
