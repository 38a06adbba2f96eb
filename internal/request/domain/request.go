// Package domain holds the tagged Request variants: ADJUST_TIME, LEAVE, and
// OT_REQUEST share one table and one Go type, with fields foreign to a
// variant always cleared before persistence.
package domain

import "time"

const (
	TypeAdjustTime = "ADJUST_TIME"
	TypeLeave      = "LEAVE"
	TypeOTRequest  = "OT_REQUEST"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	LeaveAnnual = "ANNUAL"
	LeaveSick   = "SICK"
	LeaveUnpaid = "UNPAID"
)

// Request is the tagged union of all three request kinds. Fields foreign to
// the variant named by Type are always nil.
type Request struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"userId"`
	Type   string `db:"type" json:"type"`
	Status string `db:"status" json:"status"`

	// ADJUST_TIME
	Date                   *string    `db:"date" json:"date,omitempty"`
	CheckInDate            *string    `db:"check_in_date" json:"checkInDate,omitempty"`
	CheckOutDate           *string    `db:"check_out_date" json:"checkOutDate,omitempty"`
	RequestedCheckInAt     *time.Time `db:"requested_check_in_at" json:"requestedCheckInAt,omitempty"`
	RequestedCheckOutAt    *time.Time `db:"requested_check_out_at" json:"requestedCheckOutAt,omitempty"`

	// LEAVE
	LeaveStartDate *string  `db:"leave_start_date" json:"leaveStartDate,omitempty"`
	LeaveEndDate   *string  `db:"leave_end_date" json:"leaveEndDate,omitempty"`
	LeaveType      *string  `db:"leave_type" json:"leaveType,omitempty"`
	LeaveDaysCount *float64 `db:"leave_days_count" json:"leaveDaysCount,omitempty"`

	// OT_REQUEST
	EstimatedEndTime *time.Time `db:"estimated_end_time" json:"estimatedEndTime,omitempty"`
	ActualOTMinutes  *int       `db:"actual_ot_minutes" json:"actualOtMinutes,omitempty"`

	Reason     string     `db:"reason" json:"reason"`
	ApprovedBy *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// clearForeignFields zeroes every field not owned by r.Type. Called by
// every constructor so cross-contamination between variants is structurally
// impossible once a Request leaves this package.
func (r *Request) clearForeignFields() {
	if r.Type != TypeAdjustTime {
		r.CheckInDate, r.CheckOutDate = nil, nil
		r.RequestedCheckInAt, r.RequestedCheckOutAt = nil, nil
	}
	if r.Type != TypeLeave {
		r.LeaveStartDate, r.LeaveEndDate, r.LeaveType, r.LeaveDaysCount = nil, nil, nil, nil
	}
	if r.Type != TypeOTRequest {
		r.EstimatedEndTime, r.ActualOTMinutes = nil, nil
	}
	if r.Type != TypeAdjustTime && r.Type != TypeOTRequest {
		r.Date = nil
	}
}

// NewAdjustTimeRequest builds a PENDING ADJUST_TIME request, clearing every
// foreign field.
func NewAdjustTimeRequest(userID, date string, checkInDate, checkOutDate *string, checkInAt, checkOutAt *time.Time, reason string) *Request {
	r := &Request{
		UserID:              userID,
		Type:                TypeAdjustTime,
		Status:              StatusPending,
		Date:                &date,
		CheckInDate:         checkInDate,
		CheckOutDate:        checkOutDate,
		RequestedCheckInAt:  checkInAt,
		RequestedCheckOutAt: checkOutAt,
		Reason:              reason,
	}
	r.clearForeignFields()
	return r
}

// NewLeaveRequest builds a PENDING LEAVE request, clearing every foreign
// field.
func NewLeaveRequest(userID, startDate, endDate string, leaveType *string, daysCount float64, reason string) *Request {
	r := &Request{
		UserID:         userID,
		Type:           TypeLeave,
		Status:         StatusPending,
		LeaveStartDate: &startDate,
		LeaveEndDate:   &endDate,
		LeaveType:      leaveType,
		LeaveDaysCount: &daysCount,
		Reason:         reason,
	}
	r.clearForeignFields()
	return r
}

// NewOTRequest builds a PENDING OT_REQUEST, clearing every foreign field.
func NewOTRequest(userID, date string, estimatedEndTime time.Time, reason string) *Request {
	r := &Request{
		UserID:           userID,
		Type:             TypeOTRequest,
		Status:           StatusPending,
		Date:             &date,
		EstimatedEndTime: &estimatedEndTime,
		Reason:           reason,
	}
	r.clearForeignFields()
	return r
}

// IsPending reports whether r is still awaiting a decision.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}
