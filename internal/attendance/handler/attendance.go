package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/attendly/attendance-service/internal/attendance/service"
	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// TeamMembership resolves which user ids belong to a team, used to scope
// GET /attendance/today to a manager's team.
type TeamMembership interface {
	ListIDsByTeam(ctx context.Context, teamID string) ([]string, error)
}

// AttendanceHandler exposes the Attendance Engine's HTTP surface.
type AttendanceHandler struct {
	service *service.AttendanceService
	teams   TeamMembership
	logger  *logger.Logger
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService, teams TeamMembership, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{service: svc, teams: teams, logger: log}
}

// CheckIn handles POST /attendance/check-in.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	a, err := h.service.CheckIn(r.Context(), principal.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"attendance": a})
}

// CheckOut handles POST /attendance/check-out.
func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	a, err := h.service.CheckOut(r.Context(), principal.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"attendance": a})
}

// Me handles GET /attendance/me?month=YYYY-MM.
func (h *AttendanceHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	month := r.URL.Query().Get("month")
	start, err := time.Parse("2006-01", month)
	if err != nil {
		httputil.Error(w, errors.BadRequest("month must be formatted YYYY-MM"))
		return
	}
	monthStart := start.Format("2006-01-02")
	monthEnd := start.AddDate(0, 1, 0).AddDate(0, 0, -1).Format("2006-01-02")

	items, err := h.service.MonthlyHistory(r.Context(), principal.UserID, monthStart, monthEnd)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Today handles GET /attendance/today?scope=self|team|company&teamId=...
func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "self"
	}
	today := h.service.TodayDate()

	var userIDs map[string]bool
	switch scope {
	case "self":
		userIDs = map[string]bool{principal.UserID: true}
	case "team":
		teamID := r.URL.Query().Get("teamId")
		if teamID == "" {
			teamID = principal.TeamID
		}
		if !policy.CanViewTeamReports(principal, teamID) {
			httputil.Error(w, errors.Forbidden(""))
			return
		}
		ids, err := h.teams.ListIDsByTeam(r.Context(), teamID)
		if err != nil {
			httputil.Error(w, err)
			return
		}
		userIDs = make(map[string]bool, len(ids))
		for _, id := range ids {
			userIDs[id] = true
		}
	case "company":
		if !policy.CanViewCompanyReports(principal) {
			httputil.Error(w, errors.Forbidden(""))
			return
		}
		userIDs = nil
	default:
		httputil.Error(w, errors.BadRequest("scope must be self, team, or company"))
		return
	}

	items, err := h.service.ListByDateScoped(r.Context(), today, userIDs)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"date": today, "items": items})
}
