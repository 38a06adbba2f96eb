// Package policy implements the role-scoped access checks consulted by
// every higher-level component: User Directory, Attendance Engine, and
// Request Engine. Checks are evaluated at the core, not only at the HTTP
// edge, and a denial always surfaces as a uniform "access denied" outcome
// that never discloses whether the target resource exists.
package policy

import (
	"github.com/attendly/attendance-service/pkg/httputil"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// TeamMember is the minimal shape of a target user needed to evaluate
// team-scoped access checks.
type TeamMember struct {
	UserID string
	TeamID string
}

// Principal is the verified {UserID, Role, TeamID} carried by a request
// for the duration of its handling. It is an alias of httputil.Principal
// so the token-verification layer and the policy layer share one type.
type Principal = httputil.Principal

// hasTeam reports whether a MANAGER principal has a team assigned. A
// manager without a team has manager-scoped capabilities disabled.
func hasTeam(p Principal) bool {
	return p.TeamID != ""
}

// CanViewUser reports whether p may view target's profile: self, a
// same-team manager, or any admin.
func CanViewUser(p Principal, target TeamMember) bool {
	if p.UserID == target.UserID {
		return true
	}
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return hasTeam(p) && p.TeamID == target.TeamID
	default:
		return false
	}
}

// CanApprove reports whether p may approve or reject a request submitted
// by submitter: a same-team manager, or any admin.
func CanApprove(p Principal, submitter TeamMember) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return hasTeam(p) && p.TeamID == submitter.TeamID
	default:
		return false
	}
}

// CanManageUsers reports whether p may create, update, reset passwords,
// soft-delete, restore, or purge users. ADMIN only.
func CanManageUsers(p Principal) bool {
	return p.Role == RoleAdmin
}

// CanViewCompanyReports reports whether p may view company-wide reports.
// ADMIN only.
func CanViewCompanyReports(p Principal) bool {
	return p.Role == RoleAdmin
}

// CanViewTeamReports reports whether p may view reports scoped to teamID:
// any admin, or a manager viewing their own team.
func CanViewTeamReports(p Principal, teamID string) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return hasTeam(p) && p.TeamID == teamID
	default:
		return false
	}
}

// IsSelf reports whether p is the subject identified by userID.
func IsSelf(p Principal, userID string) bool {
	return p.UserID == userID
}
