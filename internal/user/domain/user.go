// Package domain holds the User Directory's persistence-shaped types: the
// User record itself and the whitelisted update payload the service layer
// accepts.
package domain

import "time"

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// User represents a single employee account. TeamID is empty for an admin
// or for a manager not yet assigned to a team.
type User struct {
	ID           string     `json:"id" db:"id"`
	EmployeeCode string     `json:"employeeCode" db:"employee_code"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Role         string     `json:"role" db:"role"`
	TeamID       string     `json:"teamId" db:"team_id"`
	StartDate    string     `json:"startDate" db:"start_date"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Update is the whitelist of fields an administrator may change. A nil
// field is left untouched; Update never carries EmployeeCode, Role, or
// PasswordHash, which have their own dedicated operations.
type Update struct {
	Name      *string
	Email     *string
	Username  *string
	TeamID    *string
	IsActive  *bool
	StartDate *string
}

// CreateInput is the payload needed to provision a new user. PlainPassword
// is hashed by the service layer before anything reaches the repository.
type CreateInput struct {
	EmployeeCode  string
	Email         string
	Username      string
	PlainPassword string
	Name          string
	Role          string
	TeamID        string
	StartDate     string
}

// ListFilter narrows a paginated user listing.
type ListFilter struct {
	Search         string
	Role           string
	TeamID         string
	IncludeDeleted bool
	Page           int
	Limit          int
}
