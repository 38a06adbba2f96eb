package service

import (
	"time"

	"github.com/attendly/attendance-service/internal/attendance/domain"
	"github.com/attendly/attendance-service/pkg/config"
)

// deriveStatus computes the per-day status for one attendance record. today
// is the business-timezone date-key "now" falls on.
func deriveStatus(cfg config.BusinessConfig, loc *time.Location, date, today string, a *domain.Attendance) domain.Status {
	if a == nil {
		if date < today {
			return domain.StatusAbsent
		}
		return ""
	}

	if a.IsOpen() {
		if date < today {
			return domain.StatusMissingCheckout
		}
		return domain.StatusWorking
	}

	shiftStart, err1 := atTimeOfDay(loc, date, cfg.ShiftStart)
	shiftEnd, err2 := atTimeOfDay(loc, date, cfg.ShiftEnd)
	if err1 != nil || err2 != nil {
		return domain.StatusOnTime
	}

	late := a.CheckInAt.Sub(shiftStart)
	if late < 0 {
		late = 0
	}
	early := shiftEnd.Sub(*a.CheckOutAt)
	if early < 0 {
		early = 0
	}

	switch {
	case late > 0 && early > 0:
		return domain.StatusLateAndEarly
	case late > 0:
		return domain.StatusLate
	case early > 0:
		return domain.StatusEarlyLeave
	default:
		return domain.StatusOnTime
	}
}

// OvertimeMinutes computes minutes worked past the configured OT start time
// on the check-in's nominal date, zeroed out below the minimum OT duration.
// Exported so internal/request/service can apply the identical formula when
// an approved ADJUST_TIME request sets a checkout time.
func OvertimeMinutes(cfg config.BusinessConfig, loc *time.Location, checkInDate string, checkInAt, checkOutAt time.Time) int {
	otStart, err := atTimeOfDay(loc, checkInDate, cfg.OTStart)
	if err != nil {
		return 0
	}
	worked := checkOutAt.Sub(otStart)
	if worked < cfg.MinOTDuration {
		return 0
	}
	return int(worked.Minutes())
}

func atTimeOfDay(loc *time.Location, date, hhmm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
}
