package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/attendly/attendance-service/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// WrapError maps a PostgreSQL constraint violation to its AppError, falling
// back to the original error when it isn't one MapPQError recognizes.
func WrapError(err error) error {
	if appErr := MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "email_format"):
		return errors.Validation(map[string]string{
			"email": "must be a valid email address",
		})

	case strings.Contains(constraint, "role_valid"):
		return errors.Validation(map[string]string{
			"role": "must be one of: EMPLOYEE, MANAGER, ADMIN",
		})

	case strings.Contains(constraint, "request_type_valid"):
		return errors.Validation(map[string]string{
			"type": "must be one of: ADJUST_TIME, LEAVE, OT_REQUEST",
		})

	case strings.Contains(constraint, "request_status_valid"):
		return errors.Validation(map[string]string{
			"status": "must be one of: PENDING, APPROVED, REJECTED",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "employee_code"):
		return "a user with this employee code already exists"
	case strings.Contains(constraint, "email"):
		return "a user with this email already exists"
	case strings.Contains(constraint, "username"):
		return "a user with this username already exists"
	case strings.Contains(constraint, "user_date"):
		return "an attendance record already exists for this user and date"
	case strings.Contains(constraint, "pending"):
		return "a pending request of this type already exists for this date"
	default:
		return "a record with these values already exists"
	}
}
