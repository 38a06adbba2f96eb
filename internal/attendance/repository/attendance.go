package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/attendly/attendance-service/internal/attendance/domain"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
)

const attendanceColumns = `id, user_id, date, check_in_at, check_out_at, overtime_minutes, ot_approved, created_at, updated_at`

// AttendanceRepository persists Attendance Engine records.
type AttendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new open session. The unique (user_id, date) index
// surfaces a concurrent double check-in as a CONFLICT via MapPQError.
func (r *AttendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO attendance_records (id, user_id, date, check_in_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, a.ID, a.UserID, a.Date, a.CheckInAt).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

func (r *AttendanceRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Attendance, error) {
	var a domain.Attendance
	err := r.db.GetContext(ctx, &a, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("attendance record")
	}
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	return &a, nil
}

// FindByUserDate fetches the attendance row for a (user, date) pair, if any.
func (r *AttendanceRepository) FindByUserDate(ctx context.Context, userID, date string) (*domain.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE user_id = $1 AND date = $2`, attendanceColumns)
	return r.getOne(ctx, query, userID, date)
}

// FindOpenByUser returns the user's single open session, if one exists.
func (r *AttendanceRepository) FindOpenByUser(ctx context.Context, userID string) (*domain.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE user_id = $1 AND check_out_at IS NULL
		ORDER BY check_in_at DESC LIMIT 1`, attendanceColumns)
	return r.getOne(ctx, query, userID)
}

// FindAllOpen scans every open session across all users, used by check-out
// to defensively detect stale or duplicate open sessions.
func (r *AttendanceRepository) FindAllOpen(ctx context.Context) ([]*domain.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE check_out_at IS NULL ORDER BY check_in_at ASC`, attendanceColumns)
	var rows []*domain.Attendance
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("scan open sessions: %w", err)
	}
	return rows, nil
}

// ListByUserMonth returns every attendance row for a user in [monthStart, monthEnd] inclusive date-keys.
func (r *AttendanceRepository) ListByUserMonth(ctx context.Context, userID, monthStart, monthEnd string) ([]*domain.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`, attendanceColumns)
	var rows []*domain.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, userID, monthStart, monthEnd); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// ListByDate returns every attendance row for a given date-key, used by
// the today-attendance read with a team/company scope applied by the caller.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]*domain.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE date = $1`, attendanceColumns)
	var rows []*domain.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return rows, nil
}

// CloseSession sets checkOutAt and overtimeMinutes on an open session,
// conditioned on it still being open. Used for normal check-out.
func (r *AttendanceRepository) CloseSession(ctx context.Context, id string, checkOutAt time.Time, overtimeMinutes int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE attendance_records SET check_out_at = $2, overtime_minutes = $3, updated_at = NOW()
		 WHERE id = $1 AND check_out_at IS NULL`,
		id, checkOutAt, overtimeMinutes)
	if err != nil {
		return database.WrapError(err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.Conflict("session was already closed")
	}
	return nil
}

// UpsertCheckIn creates the row for (userID, date) if absent, or overwrites
// checkInAt on the existing row. Used by ADJUST_TIME approval.
func (r *AttendanceRepository) UpsertCheckIn(ctx context.Context, userID, date string, checkInAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, user_id, date, check_in_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO UPDATE SET check_in_at = $4, updated_at = NOW()
	`, uuid.New().String(), userID, date, checkInAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// UpsertCheckOut creates the row for (userID, date) if absent (requires a
// checkInAt to seed it), or overwrites checkOutAt on the existing row.
// Used by ADJUST_TIME approval.
func (r *AttendanceRepository) UpsertCheckOut(ctx context.Context, userID, date string, checkInAt, checkOutAt time.Time, overtimeMinutes int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, user_id, date, check_in_at, check_out_at, overtime_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET check_out_at = $5, overtime_minutes = $6, updated_at = NOW()
	`, uuid.New().String(), userID, date, checkInAt, checkOutAt, overtimeMinutes)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// DeleteAllForUser hard-deletes every attendance row for userID, returning
// the row count. Intended to run inside the caller's transaction via the
// ctx it is given.
func (r *AttendanceRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteForUsers(ctx, []string{userID})
}

// DeleteAllForUsers hard-deletes every attendance row for any of userIDs,
// returning the row count, used by the User Directory's purge cascade.
// Intended to run inside the caller's transaction via the ctx it is given.
func (r *AttendanceRepository) DeleteAllForUsers(ctx context.Context, userIDs []string) (int64, error) {
	return r.deleteForUsers(ctx, userIDs)
}

func (r *AttendanceRepository) deleteForUsers(ctx context.Context, userIDs []string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return 0, database.WrapError(err)
	}
	return result.RowsAffected()
}

// WithTx exposes the underlying sqlx transaction helper so the request
// service can run a cross-aggregate compound write (status flip + upsert)
// atomically.
func (r *AttendanceRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return r.db.Transaction(ctx, fn)
}
