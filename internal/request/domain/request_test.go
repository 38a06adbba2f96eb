package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAdjustTimeRequest_ClearsForeignFields(t *testing.T) {
	checkInDate := "2026-07-20"
	checkInAt := time.Date(2026, 7, 20, 8, 45, 0, 0, time.UTC)

	r := NewAdjustTimeRequest("u1", "2026-07-20", &checkInDate, nil, &checkInAt, nil, "forgot to clock in")

	assert.Equal(t, TypeAdjustTime, r.Type)
	assert.Equal(t, StatusPending, r.Status)
	assert.NotNil(t, r.Date)
	assert.Equal(t, "2026-07-20", *r.Date)
	assert.NotNil(t, r.RequestedCheckInAt)

	assert.Nil(t, r.LeaveStartDate)
	assert.Nil(t, r.LeaveEndDate)
	assert.Nil(t, r.LeaveType)
	assert.Nil(t, r.LeaveDaysCount)
	assert.Nil(t, r.EstimatedEndTime)
	assert.Nil(t, r.ActualOTMinutes)
}

func TestNewLeaveRequest_ClearsForeignFields(t *testing.T) {
	leaveType := LeaveAnnual
	r := NewLeaveRequest("u1", "2026-07-20", "2026-07-24", &leaveType, 3, "family trip")

	assert.Equal(t, TypeLeave, r.Type)
	assert.NotNil(t, r.LeaveStartDate)
	assert.NotNil(t, r.LeaveEndDate)
	assert.Equal(t, LeaveAnnual, *r.LeaveType)
	assert.Equal(t, 3.0, *r.LeaveDaysCount)

	// Date is ADJUST_TIME/OT_REQUEST-only, so LEAVE never carries it.
	assert.Nil(t, r.Date)
	assert.Nil(t, r.CheckInDate)
	assert.Nil(t, r.CheckOutDate)
	assert.Nil(t, r.RequestedCheckInAt)
	assert.Nil(t, r.RequestedCheckOutAt)
	assert.Nil(t, r.EstimatedEndTime)
	assert.Nil(t, r.ActualOTMinutes)
}

func TestNewOTRequest_ClearsForeignFields(t *testing.T) {
	end := time.Date(2026, 7, 20, 20, 0, 0, 0, time.UTC)
	r := NewOTRequest("u1", "2026-07-20", end, "inventory count")

	assert.Equal(t, TypeOTRequest, r.Type)
	assert.NotNil(t, r.Date)
	assert.Equal(t, "2026-07-20", *r.Date)
	assert.NotNil(t, r.EstimatedEndTime)

	assert.Nil(t, r.CheckInDate)
	assert.Nil(t, r.CheckOutDate)
	assert.Nil(t, r.RequestedCheckInAt)
	assert.Nil(t, r.RequestedCheckOutAt)
	assert.Nil(t, r.LeaveStartDate)
	assert.Nil(t, r.LeaveEndDate)
	assert.Nil(t, r.LeaveType)
	assert.Nil(t, r.LeaveDaysCount)
}

func TestIsPending(t *testing.T) {
	r := &Request{Status: StatusPending}
	assert.True(t, r.IsPending())

	r.Status = StatusApproved
	assert.False(t, r.IsPending())
}
