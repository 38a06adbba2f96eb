package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/attendly/attendance-service/internal/request/domain"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
)

const requestColumns = `
	id, user_id, type, status,
	date, check_in_date, check_out_date, requested_check_in_at, requested_check_out_at,
	leave_start_date, leave_end_date, leave_type, leave_days_count,
	estimated_end_time, actual_ot_minutes,
	reason, approved_by, approved_at, created_at, updated_at
`

// RequestRepository persists Request Engine records.
type RequestRepository struct {
	db *database.DB
}

// NewRequestRepository creates a new request repository.
func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new PENDING request. The partial unique indexes on
// (user_id, date, type) WHERE status = 'PENDING' surface a duplicate
// pending submission as a CONFLICT via MapPQError.
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := fmt.Sprintf(`
		INSERT INTO requests (
			id, user_id, type, status,
			date, check_in_date, check_out_date, requested_check_in_at, requested_check_out_at,
			leave_start_date, leave_end_date, leave_type, leave_days_count,
			estimated_end_time, actual_ot_minutes,
			reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`)
	err := r.db.QueryRowxContext(ctx, query,
		req.ID, req.UserID, req.Type, req.Status,
		req.Date, req.CheckInDate, req.CheckOutDate, req.RequestedCheckInAt, req.RequestedCheckOutAt,
		req.LeaveStartDate, req.LeaveEndDate, req.LeaveType, req.LeaveDaysCount,
		req.EstimatedEndTime, req.ActualOTMinutes,
		req.Reason,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

func (r *RequestRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Request, error) {
	var req domain.Request
	err := r.db.GetContext(ctx, &req, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("request")
	}
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	return &req, nil
}

// GetByID fetches a single request by id.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1`, requestColumns)
	return r.getOne(ctx, query, id)
}

// FindPendingByUserDateType looks up the PENDING request for the (user,
// date, type) triple, if any, used by the no-duplicate-pending rule.
func (r *RequestRepository) FindPendingByUserDateType(ctx context.Context, userID, date, reqType string) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE user_id = $1 AND date = $2 AND type = $3 AND status = $4`, requestColumns)
	return r.getOne(ctx, query, userID, date, reqType, domain.StatusPending)
}

// ListOverlappingLeave returns every APPROVED or PENDING LEAVE request for
// userID whose [leaveStartDate, leaveEndDate] overlaps [start, end].
// Both ranges are inclusive, so sharing a single day counts as an overlap;
// adjacent ranges (one ending the day before the other starts) do not.
func (r *RequestRepository) ListOverlappingLeave(ctx context.Context, userID, start, end string) ([]*domain.Request, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM requests
		WHERE user_id = $1 AND type = $2 AND status IN ($3, $4)
		AND leave_start_date <= $6 AND leave_end_date >= $5
	`, requestColumns)
	var rows []*domain.Request
	err := r.db.SelectContext(ctx, &rows, query, userID, domain.TypeLeave, domain.StatusApproved, domain.StatusPending, start, end)
	if err != nil {
		return nil, fmt.Errorf("list overlapping leave: %w", err)
	}
	return rows, nil
}

// ListByUser returns every request submitted by userID, newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE user_id = $1 ORDER BY created_at DESC`, requestColumns)
	var rows []*domain.Request
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return rows, nil
}

// ListPendingForTeam returns every PENDING request whose submitter belongs
// to one of userIDs, used by a manager's pending queue. A nil userIDs
// means unrestricted (admin).
func (r *RequestRepository) ListPendingForTeam(ctx context.Context, userIDs []string) ([]*domain.Request, error) {
	if userIDs == nil {
		query := fmt.Sprintf(`SELECT %s FROM requests WHERE status = $1 ORDER BY created_at ASC`, requestColumns)
		var rows []*domain.Request
		if err := r.db.SelectContext(ctx, &rows, query, domain.StatusPending); err != nil {
			return nil, fmt.Errorf("list pending requests: %w", err)
		}
		return rows, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE status = $1 AND user_id = ANY($2) ORDER BY created_at ASC`, requestColumns)
	var rows []*domain.Request
	if err := r.db.SelectContext(ctx, &rows, query, domain.StatusPending, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list pending requests for team: %w", err)
	}
	return rows, nil
}

// Approve conditionally flips a PENDING request to APPROVED, returning the
// updated row. Zero rows affected surfaces CONFLICT: the compare-and-set
// that makes concurrent double-approval produce exactly one winner.
func (r *RequestRepository) Approve(ctx context.Context, id, approverID string, now time.Time) (*domain.Request, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE requests SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, domain.StatusApproved, approverID, now, id, domain.StatusPending)
	if err != nil {
		return nil, database.WrapError(err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, errors.Conflict("request is no longer pending")
	}
	return r.GetByID(ctx, id)
}

// Reject conditionally flips a PENDING request to REJECTED.
func (r *RequestRepository) Reject(ctx context.Context, id, approverID string, now time.Time) (*domain.Request, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE requests SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, domain.StatusRejected, approverID, now, id, domain.StatusPending)
	if err != nil {
		return nil, database.WrapError(err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, errors.Conflict("request is no longer pending")
	}
	return r.GetByID(ctx, id)
}

// DeleteAllForUser hard-deletes every request row for userID, returning the
// row count.
func (r *RequestRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteForUsers(ctx, []string{userID})
}

// DeleteAllForUsers hard-deletes every request row for any of userIDs,
// returning the row count, used by the User Directory's purge cascade.
// Intended to run inside the caller's transaction via the ctx it is given.
func (r *RequestRepository) DeleteAllForUsers(ctx context.Context, userIDs []string) (int64, error) {
	return r.deleteForUsers(ctx, userIDs)
}

func (r *RequestRepository) deleteForUsers(ctx context.Context, userIDs []string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return 0, database.WrapError(err)
	}
	return result.RowsAffected()
}

// WithTx exposes the shared transaction helper so approval's attendance
// side-effect and status flip commit atomically.
func (r *RequestRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return r.db.Transaction(ctx, fn)
}
