package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auditservice "github.com/attendly/attendance-service/internal/audit/service"
	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/internal/user/service"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// UserHandler exposes the User Directory's HTTP surface: the shared
// GET /users/:id lookup and the admin-only /admin/users* operations.
type UserHandler struct {
	service *service.UserService
	audit   *auditservice.Recorder
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, audit *auditservice.Recorder, log *logger.Logger) *UserHandler {
	return &UserHandler{service: svc, audit: audit, logger: log}
}

// Get handles GET /users/:id, open to a same-team manager or any admin.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, _ := httputil.GetPrincipal(r.Context())

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if !policy.CanViewUser(principal, policy.TeamMember{UserID: user.ID, TeamID: user.TeamID}) {
		httputil.Error(w, errors.Forbidden("access denied"))
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	EmployeeCode string `json:"employeeCode" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required"`
	Username     string `json:"username"`
	TeamID       string `json:"teamId"`
	StartDate    string `json:"startDate"`
}

// Create handles POST /admin/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), domain.CreateInput{
		EmployeeCode:  req.EmployeeCode,
		Email:         req.Email,
		Username:      req.Username,
		PlainPassword: req.Password,
		Name:          req.Name,
		Role:          req.Role,
		TeamID:        req.TeamID,
		StartDate:     req.StartDate,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, user)
}

// List handles GET /admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get("includeDeleted"))

	filter := domain.ListFilter{
		Search:         r.URL.Query().Get("search"),
		IncludeDeleted: includeDeleted,
		Page:           page,
		Limit:          limit,
	}

	users, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"items":      users,
		"pagination": httputil.NewPagination(filter.Page, filter.Limit, total),
	})
}

type updateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username"`
	TeamID    *string `json:"teamId"`
	IsActive  *bool   `json:"isActive"`
	StartDate *string `json:"startDate"`
}

// Update handles PATCH /admin/users/:id.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	err := h.service.Update(r.Context(), id, domain.Update{
		Name:      req.Name,
		Email:     req.Email,
		Username:  req.Username,
		TeamID:    req.TeamID,
		IsActive:  req.IsActive,
		StartDate: req.StartDate,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ResetPassword handles POST /admin/users/:id/reset-password.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req resetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

// Delete handles DELETE /admin/users/:id.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, _ := httputil.GetPrincipal(r.Context())

	restoreDeadline, err := h.service.SoftDelete(r.Context(), principal.UserID, id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"restoreDeadline": restoreDeadline})
}

// Restore handles POST /admin/users/:id/restore.
func (h *UserHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Restore(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// Purge handles POST /admin/users/purge.
func (h *UserHandler) Purge(w http.ResponseWriter, r *http.Request) {
	principal, _ := httputil.GetPrincipal(r.Context())
	result, err := h.service.Purge(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	h.audit.RecordPurgeExecuted(r.Context(), principal.UserID, result.Purged,
		result.CascadeDeleted.Attendances, result.CascadeDeleted.Requests)
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"purged":         result.Purged,
		"cascadeDeleted": result.CascadeDeleted,
	})
}
