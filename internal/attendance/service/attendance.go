// Package service implements the Attendance Engine: the open-session state
// machine (check-in/check-out), stale-session detection, and the derived
// per-day status and overtime reads.
package service

import (
	"context"
	"sort"

	"github.com/attendly/attendance-service/internal/attendance/domain"
	"github.com/attendly/attendance-service/internal/attendance/repository"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/logger"
)

// maxAuditSessionIDs caps how many session ids a single audit entry records.
const maxAuditSessionIDs = 100

// AuditRecorder is the subset of internal/audit this service needs,
// defined on the consumer side so this package never imports audit
// directly.
type AuditRecorder interface {
	RecordStaleOpenSession(ctx context.Context, staleDate string, sessionIDs []string)
	RecordMultipleActiveSessions(ctx context.Context, sessionIDs []string)
}

// AttendanceService implements check-in/check-out and derived-status reads.
type AttendanceService struct {
	repo   *repository.AttendanceRepository
	clock  *clock.Clock
	cfg    config.BusinessConfig
	audit  AuditRecorder
	logger *logger.Logger
}

// NewAttendanceService creates a new attendance service.
func NewAttendanceService(repo *repository.AttendanceRepository, c *clock.Clock, cfg config.BusinessConfig, audit AuditRecorder, log *logger.Logger) *AttendanceService {
	return &AttendanceService{repo: repo, clock: c, cfg: cfg, audit: audit, logger: log}
}

// CheckIn opens a new session for userID at now, failing if one is
// already open.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string) (*domain.Attendance, error) {
	existing, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.BadRequest("an open session already exists")
	}

	now := s.clock.Now()
	a := &domain.Attendance{
		UserID:    userID,
		Date:      s.clock.DateKey(now),
		CheckInAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CheckOut closes the caller's most recently started active session,
// defensively scanning for stale or duplicate open sessions first.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string) (*domain.Attendance, error) {
	open, err := s.repo.FindAllOpen(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]*domain.Attendance, 0, 1)
	for _, a := range open {
		if a.UserID == userID {
			mine = append(mine, a)
		}
	}
	if len(mine) == 0 {
		return nil, errors.BadRequest("must check in first")
	}

	now := s.clock.Now()
	var staleDate string
	var staleIDs []string
	for _, a := range open {
		if now.Sub(a.CheckInAt).Hours() > s.cfg.GraceHours {
			staleDate = a.Date
			if len(staleIDs) < maxAuditSessionIDs {
				staleIDs = append(staleIDs, a.ID)
			}
		}
	}
	if len(staleIDs) > 0 {
		s.audit.RecordStaleOpenSession(ctx, staleDate, staleIDs)
		if len(open) > 1 {
			s.audit.RecordMultipleActiveSessions(ctx, capIDs(open))
		}
		return nil, errors.BadRequest("a stale open session from " + staleDate + " must be resolved before checking out")
	}

	sort.Slice(mine, func(i, j int) bool { return mine[i].CheckInAt.After(mine[j].CheckInAt) })
	target := mine[0]

	if len(open) > 1 {
		s.audit.RecordMultipleActiveSessions(ctx, capIDs(open))
	}

	otMinutes := OvertimeMinutes(s.cfg, s.clock.Location(), target.Date, target.CheckInAt, now)
	if err := s.repo.CloseSession(ctx, target.ID, now, otMinutes); err != nil {
		return nil, err
	}

	target.CheckOutAt = &now
	target.OvertimeMinutes = otMinutes
	return target, nil
}

func capIDs(sessions []*domain.Attendance) []string {
	ids := make([]string, 0, len(sessions))
	for _, a := range sessions {
		if len(ids) >= maxAuditSessionIDs {
			break
		}
		ids = append(ids, a.ID)
	}
	return ids
}

// TodayDate returns the current business-timezone date-key.
func (s *AttendanceService) TodayDate() string {
	return s.clock.Today()
}

// Today returns the derived status for userID on the current business date.
func (s *AttendanceService) Today(ctx context.Context, userID string) (*domain.DayView, error) {
	today := s.clock.Today()
	return s.DayView(ctx, userID, today)
}

// DayView returns the derived status and overtime for (userID, date).
func (s *AttendanceService) DayView(ctx context.Context, userID, date string) (*domain.DayView, error) {
	kind, err := s.clock.Classify(ctx, date)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	if kind != clock.Workday {
		return &domain.DayView{Date: date, Status: domain.StatusWeekendOrHoliday}, nil
	}

	a, err := s.repo.FindByUserDate(ctx, userID, date)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	today := s.clock.Today()
	status := deriveStatus(s.cfg, s.clock.Location(), date, today, a)
	view := &domain.DayView{Date: date, Status: status, Attendance: a}
	if a != nil {
		view.OvertimeMinutes = a.OvertimeMinutes
	}
	return view, nil
}

// MonthlyHistory returns a day view for every date in [monthStart,
// monthEnd]: non-workdays are marked WEEKEND_OR_HOLIDAY, and workdays carry
// the derived status with the attendance record joined in where one exists.
func (s *AttendanceService) MonthlyHistory(ctx context.Context, userID, monthStart, monthEnd string) ([]*domain.DayView, error) {
	records, err := s.repo.ListByUserMonth(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*domain.Attendance, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	today := s.clock.Today()
	var views []*domain.DayView
	start, err := s.clock.ParseDateKey(monthStart)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	end, err := s.clock.ParseDateKey(monthEnd)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := s.clock.DateKey(d)
		kind, err := s.clock.Classify(ctx, date)
		if err != nil {
			return nil, err
		}
		if kind != clock.Workday {
			views = append(views, &domain.DayView{Date: date, Status: domain.StatusWeekendOrHoliday})
			continue
		}
		rec := byDate[date]
		status := deriveStatus(s.cfg, s.clock.Location(), date, today, rec)
		view := &domain.DayView{Date: date, Status: status, Attendance: rec}
		if rec != nil {
			view.OvertimeMinutes = rec.OvertimeMinutes
		}
		views = append(views, view)
	}
	return views, nil
}

// Summarize counts derived statuses across every workday in [start, end],
// restricted to userIDs (nil means unrestricted), for the reporting view.
func (s *AttendanceService) Summarize(ctx context.Context, start, end string, userIDs map[string]bool) (map[domain.Status]int, error) {
	startDate, err := s.clock.ParseDateKey(start)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	endDate, err := s.clock.ParseDateKey(end)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	today := s.clock.Today()
	counts := make(map[domain.Status]int)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := s.clock.DateKey(d)
		kind, err := s.clock.Classify(ctx, date)
		if err != nil {
			return nil, err
		}
		if kind != clock.Workday {
			continue
		}
		records, err := s.repo.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if userIDs != nil && !userIDs[r.UserID] {
				continue
			}
			status := deriveStatus(s.cfg, s.clock.Location(), date, today, r)
			if status != "" {
				counts[status]++
			}
		}
	}
	return counts, nil
}

// ListByDateScoped returns day views for every user's attendance on date,
// restricted to userIDs (the caller's team or company scope).
func (s *AttendanceService) ListByDateScoped(ctx context.Context, date string, userIDs map[string]bool) ([]*domain.DayView, error) {
	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	var views []*domain.DayView
	for _, r := range records {
		if userIDs != nil && !userIDs[r.UserID] {
			continue
		}
		views = append(views, &domain.DayView{Date: date, Status: deriveStatus(s.cfg, s.clock.Location(), date, s.clock.Today(), r), Attendance: r, OvertimeMinutes: r.OvertimeMinutes})
	}
	return views, nil
}
