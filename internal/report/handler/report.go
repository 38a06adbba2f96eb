package handler

import (
	"context"
	"net/http"

	"github.com/attendly/attendance-service/internal/identity/policy"
	"github.com/attendly/attendance-service/internal/report/service"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
	"github.com/attendly/attendance-service/pkg/logger"
)

// TeamMembership resolves which user ids belong to a team, scoping a
// manager's report to their own team.
type TeamMembership interface {
	ListIDsByTeam(ctx context.Context, teamID string) ([]string, error)
}

// ReportHandler exposes the read-only reporting view.
type ReportHandler struct {
	service *service.ReportService
	teams   TeamMembership
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *service.ReportService, teams TeamMembership, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: svc, teams: teams, logger: log}
}

// Attendance handles GET /reports/attendance?start=YYYY-MM-DD&end=YYYY-MM-DD&scope=team|company&teamId=...
func (h *ReportHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		httputil.Error(w, errors.BadRequest("start and end are required"))
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "team"
	}

	var userIDs map[string]bool
	switch scope {
	case "company":
		if !policy.CanViewCompanyReports(principal) {
			httputil.Error(w, errors.Forbidden(""))
			return
		}
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
	default:
		httputil.Error(w, errors.BadRequest("scope must be team or company"))
		return
	}

	summary, err := h.service.Attendance(r.Context(), start, end, userIDs)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, summary)
}
