package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-service/internal/request/service"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
)

type noopHolidays struct{}

func (noopHolidays) IsHoliday(context.Context, string) (bool, error) { return false, nil }

type noopConflictRecorder struct{}

func (noopConflictRecorder) RecordRequestApprovalConflict(context.Context, string) {}

func testConfig() config.BusinessConfig {
	return config.BusinessConfig{
		UTCOffsetSeconds: 25200,
		ShiftStart:       "08:30",
		ShiftEnd:         "17:30",
		OTStart:          "17:31",
		MinOTDuration:    30 * time.Minute,
		GraceHours:       24.0,
		SubmitWindowDays: 7,
		RetentionDays:    15,
	}
}

// newValidationOnlyService builds a RequestService with nil repositories.
// Every case exercised here must fail validation before any repository call.
func newValidationOnlyService(t *testing.T) *service.RequestService {
	t.Helper()
	c := clock.New(testConfig().UTCOffsetSeconds, noopHolidays{})
	return service.NewRequestService(nil, nil, c, testConfig(), noopConflictRecorder{}, nil)
}

func TestCreateAdjustTime_RejectsEmptyReason(t *testing.T) {
	svc := newValidationOnlyService(t)
	checkIn := time.Now()
	_, err := svc.CreateAdjustTime(context.Background(), "u1", service.CreateAdjustTimeInput{
		Date:               "2026-07-20",
		RequestedCheckInAt: &checkIn,
		Reason:             "",
	})
	require.Error(t, err)
}

func TestCreateAdjustTime_RejectsNoTimestamps(t *testing.T) {
	svc := newValidationOnlyService(t)
	_, err := svc.CreateAdjustTime(context.Background(), "u1", service.CreateAdjustTimeInput{
		Date:   "2026-07-20",
		Reason: "forgot to clock in",
	})
	require.Error(t, err)
}

func TestCreateAdjustTime_RejectsInvalidDate(t *testing.T) {
	svc := newValidationOnlyService(t)
	checkIn := time.Now()
	_, err := svc.CreateAdjustTime(context.Background(), "u1", service.CreateAdjustTimeInput{
		Date:               "2026-02-30",
		RequestedCheckInAt: &checkIn,
		Reason:             "forgot to clock in",
	})
	require.Error(t, err)
}

func TestCreateAdjustTime_RejectsCheckoutDateBeforeCheckinDate(t *testing.T) {
	svc := newValidationOnlyService(t)
	checkIn := time.Now()
	checkInDate := "2026-07-21"
	checkOutDate := "2026-07-20"
	_, err := svc.CreateAdjustTime(context.Background(), "u1", service.CreateAdjustTimeInput{
		Date:               "2026-07-20",
		CheckInDate:        &checkInDate,
		CheckOutDate:       &checkOutDate,
		RequestedCheckInAt: &checkIn,
		Reason:             "cross-midnight correction",
	})
	require.Error(t, err)
}

func TestCreateAdjustTime_RejectsCheckoutNotAfterCheckin(t *testing.T) {
	svc := newValidationOnlyService(t)
	checkIn := time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn // not strictly after
	_, err := svc.CreateAdjustTime(context.Background(), "u1", service.CreateAdjustTimeInput{
		Date:                "2026-07-20",
		RequestedCheckInAt:  &checkIn,
		RequestedCheckOutAt: &checkOut,
		Reason:              "fix both timestamps",
	})
	require.Error(t, err)
}

func TestCreateLeave_RejectsEmptyReason(t *testing.T) {
	svc := newValidationOnlyService(t)
	_, err := svc.CreateLeave(context.Background(), "u1", service.CreateLeaveInput{
		StartDate: "2026-07-20",
		EndDate:   "2026-07-21",
		Reason:    "",
	})
	require.Error(t, err)
}

func TestCreateLeave_RejectsEndBeforeStart(t *testing.T) {
	svc := newValidationOnlyService(t)
	_, err := svc.CreateLeave(context.Background(), "u1", service.CreateLeaveInput{
		StartDate: "2026-07-21",
		EndDate:   "2026-07-20",
		Reason:    "family trip",
	})
	require.Error(t, err)
}

func TestCreateLeave_RejectsSpanOverThirtyDays(t *testing.T) {
	svc := newValidationOnlyService(t)
	_, err := svc.CreateLeave(context.Background(), "u1", service.CreateLeaveInput{
		StartDate: "2026-07-01",
		EndDate:   "2026-08-15",
		Reason:    "extended leave",
	})
	require.Error(t, err)
}

func TestCreateOT_RejectsEmptyReason(t *testing.T) {
	svc := newValidationOnlyService(t)
	end := time.Date(2026, 7, 20, 20, 0, 0, 0, time.UTC)
	_, err := svc.CreateOT(context.Background(), "u1", service.CreateOTInput{
		Date:             "2026-07-20",
		EstimatedEndTime: end,
		Reason:           "",
	})
	require.Error(t, err)
}

func TestCreateOT_RejectsEndTimeOnWrongDate(t *testing.T) {
	svc := newValidationOnlyService(t)
	end := time.Date(2026, 7, 21, 20, 0, 0, 0, time.FixedZone("business", testConfig().UTCOffsetSeconds))
	_, err := svc.CreateOT(context.Background(), "u1", service.CreateOTInput{
		Date:             "2026-07-20",
		EstimatedEndTime: end,
		Reason:           "inventory count",
	})
	require.Error(t, err)
}

func TestCreateOT_RejectsBelowMinimumDuration(t *testing.T) {
	svc := newValidationOnlyService(t)
	loc := time.FixedZone("business", testConfig().UTCOffsetSeconds)
	end := time.Date(2026, 7, 20, 17, 45, 0, 0, loc) // only 14 minutes past OT_START
	_, err := svc.CreateOT(context.Background(), "u1", service.CreateOTInput{
		Date:             "2026-07-20",
		EstimatedEndTime: end,
		Reason:           "inventory count",
	})
	require.Error(t, err)
}
