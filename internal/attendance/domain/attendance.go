// Package domain holds the Attendance Engine's persisted record and the
// derived per-day status computed from it.
package domain

import "time"

// Attendance is one user's session for one nominal date-key. At most one
// row per (userId, date); at most one row with CheckOutAt null per user.
type Attendance struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"userId" db:"user_id"`
	Date            string     `json:"date" db:"date"`
	CheckInAt       time.Time  `json:"checkInAt" db:"check_in_at"`
	CheckOutAt      *time.Time `json:"checkOutAt,omitempty" db:"check_out_at"`
	OvertimeMinutes int        `json:"overtimeMinutes" db:"overtime_minutes"`
	OtApproved      bool       `json:"otApproved" db:"ot_approved"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsOpen reports whether the session has not yet been checked out.
func (a *Attendance) IsOpen() bool {
	return a.CheckOutAt == nil
}

// Status is the derived per-day outcome surfaced on reads.
type Status string

const (
	StatusOnTime           Status = "ON_TIME"
	StatusLate             Status = "LATE"
	StatusEarlyLeave       Status = "EARLY_LEAVE"
	StatusLateAndEarly     Status = "LATE_AND_EARLY"
	StatusWorking          Status = "WORKING"
	StatusMissingCheckout  Status = "MISSING_CHECKOUT"
	StatusAbsent           Status = "ABSENT"
	StatusWeekendOrHoliday Status = "WEEKEND_OR_HOLIDAY"
)

// DayView is the status/overtime pair reported for a (user, date), along
// with the underlying record when one exists.
type DayView struct {
	Date            string      `json:"date"`
	Status          Status      `json:"status"`
	Attendance      *Attendance `json:"attendance,omitempty"`
	OvertimeMinutes int         `json:"overtimeMinutes"`
}
