package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/internal/request/domain"
	"github.com/attendly/attendance-service/internal/request/service"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// Submitter resolves a submitter's {userId, teamId} so Approve/Reject and
// the pending list can be scoped by team without this package importing
// the user domain directly.
type Submitter interface {
	TeamMemberOf(ctx context.Context, userID string) (policy.TeamMember, error)
	ListIDsByTeam(ctx context.Context, teamID string) ([]string, error)
}

// RequestHandler exposes the Request Engine's HTTP surface.
type RequestHandler struct {
	service    *service.RequestService
	submitters Submitter
	logger     *logger.Logger
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(svc *service.RequestService, submitters Submitter, log *logger.Logger) *RequestHandler {
	return &RequestHandler{service: svc, submitters: submitters, logger: log}
}

type createRequestBody struct {
	Type string `json:"type" validate:"required,oneof=ADJUST_TIME LEAVE OT_REQUEST"`

	Date                string     `json:"date"`
	CheckInDate         *string    `json:"checkInDate"`
	CheckOutDate        *string    `json:"checkOutDate"`
	RequestedCheckInAt  *time.Time `json:"requestedCheckInAt"`
	RequestedCheckOutAt *time.Time `json:"requestedCheckOutAt"`

	LeaveStartDate string  `json:"leaveStartDate"`
	LeaveEndDate   string  `json:"leaveEndDate"`
	LeaveType      *string `json:"leaveType"`

	EstimatedEndTime *time.Time `json:"estimatedEndTime"`

	Reason string `json:"reason"`
}

// Create handles POST /requests, dispatching by type.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	var body createRequestBody
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.Error(w, errors.BadRequest("invalid request body"))
		return
	}

	var (
		req *domain.Request
		err error
	)
	switch body.Type {
	case domain.TypeAdjustTime:
		req, err = h.service.CreateAdjustTime(r.Context(), principal.UserID, service.CreateAdjustTimeInput{
			Date:                body.Date,
			CheckInDate:         body.CheckInDate,
			CheckOutDate:        body.CheckOutDate,
			RequestedCheckInAt:  body.RequestedCheckInAt,
			RequestedCheckOutAt: body.RequestedCheckOutAt,
			Reason:              body.Reason,
		})
	case domain.TypeLeave:
		req, err = h.service.CreateLeave(r.Context(), principal.UserID, service.CreateLeaveInput{
			StartDate: body.LeaveStartDate,
			EndDate:   body.LeaveEndDate,
			LeaveType: body.LeaveType,
			Reason:    body.Reason,
		})
	case domain.TypeOTRequest:
		if body.EstimatedEndTime == nil {
			httputil.Error(w, errors.Validation(map[string]string{"estimatedEndTime": "is required"}))
			return
		}
		req, err = h.service.CreateOT(r.Context(), principal.UserID, service.CreateOTInput{
			Date:             body.Date,
			EstimatedEndTime: *body.EstimatedEndTime,
			Reason:           body.Reason,
		})
	default:
		httputil.Error(w, errors.Validation(map[string]string{"type": "must be ADJUST_TIME, LEAVE, or OT_REQUEST"}))
		return
	}
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, map[string]interface{}{"request": req})
}

// Mine handles GET /requests/me.
func (h *RequestHandler) Mine(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	items, err := h.service.ListMine(r.Context(), principal.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Pending handles GET /requests/pending, scoped by the caller's role:
// admins see everything, managers see their own team.
func (h *RequestHandler) Pending(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	if principal.Role != policy.RoleManager && principal.Role != policy.RoleAdmin {
		httputil.Error(w, errors.Forbidden(""))
		return
	}

	var userIDs []string
	if principal.Role == policy.RoleManager {
		if principal.TeamID == "" {
			httputil.JSON(w, http.StatusOK, map[string]interface{}{"items": []*domain.Request{}})
			return
		}
		ids, err := h.submitters.ListIDsByTeam(r.Context(), principal.TeamID)
		if err != nil {
			httputil.Error(w, err)
			return
		}
		userIDs = ids
	}

	items, err := h.service.ListPending(r.Context(), userIDs)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Get handles GET /requests/:id, scoped to the submitter, a same-team
// manager, or an admin.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	id := chi.URLParam(r, "id")
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if req.UserID != principal.UserID {
		submitter, err := h.submitters.TeamMemberOf(r.Context(), req.UserID)
		if err != nil {
			httputil.Error(w, err)
			return
		}
		if !policy.CanViewUser(principal, submitter) {
			httputil.Error(w, errors.Forbidden(""))
			return
		}
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// Approve handles POST /requests/:id/approve.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

// Reject handles POST /requests/:id/reject.
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *RequestHandler) decide(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id, approverID string) (*domain.Request, error)) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	if principal.Role != policy.RoleManager && principal.Role != policy.RoleAdmin {
		httputil.Error(w, errors.Forbidden(""))
		return
	}
	id := chi.URLParam(r, "id")

	req, err := h.service.GetForApproval(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	submitter, err := h.submitters.TeamMemberOf(r.Context(), req.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if !policy.CanApprove(principal, submitter) {
		httputil.Error(w, errors.Forbidden(""))
		return
	}

	updated, err := action(r.Context(), id, principal.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"request": updated})
}
