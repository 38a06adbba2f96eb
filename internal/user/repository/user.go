package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	attendanceRepo "github.com/attendly/attendance-service/internal/attendance/repository"
	requestRepo "github.com/attendly/attendance-service/internal/request/repository"
	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
)

const userColumns = `id, employee_code, email, COALESCE(username, '') AS username, password_hash, name, role,
	COALESCE(team_id::text, '') AS team_id, start_date, is_active, created_at, updated_at, deleted_at`

// UserRepository persists User Directory records.
type UserRepository struct {
	db         *database.DB
	attendance *attendanceRepo.AttendanceRepository
	requests   *requestRepo.RequestRepository
}

// NewUserRepository creates a new user repository. attendance and requests
// back the purge cascade; they may be nil if the caller never calls
// PurgeEligible.
func NewUserRepository(db *database.DB, attendance *attendanceRepo.AttendanceRepository, requests *requestRepo.RequestRepository) *UserRepository {
	return &UserRepository{db: db, attendance: attendance, requests: requests}
}

// Create inserts a new user. The row must already carry a hashed password.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, employee_code, email, username, password_hash, name, role, team_id, start_date, is_active)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, true)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.EmployeeCode, user.Email, user.Username, user.PasswordHash,
		user.Name, user.Role, user.TeamID, user.StartDate,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	user.IsActive = true
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// GetByID fetches a non-deleted user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND deleted_at IS NULL`, userColumns)
	return r.getOne(ctx, query, id)
}

// GetByIDIncludingDeleted fetches a user by id regardless of soft-delete state.
func (r *UserRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.getOne(ctx, query, id)
}

// GetByIdentifier resolves a login identifier against employee_code, email,
// or username, in that order of likelihood. Only non-deleted users match.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE deleted_at IS NULL AND (employee_code = $1 OR email = $1 OR username = $1)
	`, userColumns)
	return r.getOne(ctx, query, identifier)
}

// List returns a paginated, optionally-filtered page of users.
func (r *UserRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.User, int64, error) {
	where := "WHERE ($1 OR deleted_at IS NULL)"
	filterArgs := []interface{}{filter.IncludeDeleted}
	argN := 2

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR employee_code ILIKE $%d)", argN, argN, argN)
		filterArgs = append(filterArgs, "%"+filter.Search+"%")
		argN++
	}
	if filter.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", argN)
		filterArgs = append(filterArgs, filter.Role)
		argN++
	}
	if filter.TeamID != "" {
		where += fmt.Sprintf(" AND team_id = $%d", argN)
		filterArgs = append(filterArgs, filter.TeamID)
		argN++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM users " + where
	if err := r.db.GetContext(ctx, &total, countQuery, filterArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limitArg, offsetArg := argN, argN+1
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, limitArg, offsetArg)
	selectArgs := append(append([]interface{}{}, filterArgs...), filter.Limit, (filter.Page-1)*filter.Limit)

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, selectArgs...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update applies a whitelisted partial update.
func (r *UserRepository) Update(ctx context.Context, id string, upd domain.Update) error {
	query := `
		UPDATE users SET
			name       = COALESCE($2, name),
			email      = COALESCE($3, email),
			username   = COALESCE($4, username),
			team_id    = CASE WHEN $5 THEN $6 ELSE team_id END,
			is_active  = COALESCE($7, is_active),
			start_date = COALESCE($8, start_date),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	teamIDSet := upd.TeamID != nil
	var teamIDVal sql.NullString
	if teamIDSet {
		teamIDVal = sql.NullString{String: *upd.TeamID, Valid: *upd.TeamID != ""}
	}

	result, err := r.db.ExecContext(ctx, query, id, upd.Name, upd.Email, upd.Username,
		teamIDSet, teamIDVal, upd.IsActive, upd.StartDate)
	if err != nil {
		return database.WrapError(err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

// ResetPassword overwrites a user's password hash.
func (r *UserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

// SoftDelete marks a user deleted without removing the row.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = NOW(), is_active = false WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

// Restore clears a soft-delete, only when still inside the retention window
// (enforced by the caller, which holds the retention policy).
func (r *UserRepository) Restore(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = NULL, is_active = true WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("user")
	}
	return nil
}

// ListIDsByTeam returns the ids of every non-deleted user on teamID,
// used to scope team-wide attendance and report reads.
func (r *UserRepository) ListIDsByTeam(ctx context.Context, teamID string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM users WHERE team_id = $1 AND deleted_at IS NULL`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team user ids: %w", err)
	}
	return ids, nil
}

// CascadeCounts breaks down how many dependent rows were cascade-deleted
// by table, per table rather than as one combined total.
type CascadeCounts struct {
	Attendances int64 `json:"attendances"`
	Requests    int64 `json:"requests"`
}

// PurgeResult reports how many users were purged and how many dependent
// attendance and request rows were cascade-deleted with them.
type PurgeResult struct {
	Purged         int64
	CascadeDeleted CascadeCounts
}

// PurgeEligible permanently removes every user whose deletedAt precedes
// cutoff, cascading the hard-delete to their attendance and request rows.
// Dependent deletes run first so the foreign keys never block the user
// row, all inside one transaction.
func (r *UserRepository) PurgeEligible(ctx context.Context, cutoff time.Time) (PurgeResult, error) {
	var result PurgeResult
	err := r.db.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var ids []string
		if err := r.db.SelectContext(ctx, &ids,
			`SELECT id FROM users WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff); err != nil {
			return fmt.Errorf("select purge-eligible users: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		reqCount, err := r.requests.DeleteAllForUsers(ctx, ids)
		if err != nil {
			return fmt.Errorf("purge requests: %w", err)
		}

		attCount, err := r.attendance.DeleteAllForUsers(ctx, ids)
		if err != nil {
			return fmt.Errorf("purge attendance: %w", err)
		}

		userRes, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
		if err != nil {
			return fmt.Errorf("purge users: %w", err)
		}
		userCount, _ := userRes.RowsAffected()

		result = PurgeResult{
			Purged:         userCount,
			CascadeDeleted: CascadeCounts{Attendances: attCount, Requests: reqCount},
		}
		return nil
	})
	return result, err
}
