// Package service implements the Request Engine: per-type creation rules,
// the approval/rejection state transition, and the attendance side-effect
// that ADJUST_TIME approval performs atomically with the status flip.
package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	attendanceRepo "github.com/attendly/attendance-service/internal/attendance/repository"
	attendanceService "github.com/attendly/attendance-service/internal/attendance/service"
	"github.com/attendly/attendance-service/internal/request/domain"
	"github.com/attendly/attendance-service/internal/request/repository"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/logger"
)

// ConflictRecorder is the subset of internal/audit this service needs,
// defined on the consumer side so this package never imports audit
// directly.
type ConflictRecorder interface {
	RecordRequestApprovalConflict(ctx context.Context, requestID string)
}

// RequestService implements request creation, approval, and rejection.
type RequestService struct {
	requests   *repository.RequestRepository
	attendance *attendanceRepo.AttendanceRepository
	clock      *clock.Clock
	cfg        config.BusinessConfig
	audit      ConflictRecorder
	logger     *logger.Logger
}

// NewRequestService creates a new request service.
func NewRequestService(requests *repository.RequestRepository, attendance *attendanceRepo.AttendanceRepository, c *clock.Clock, cfg config.BusinessConfig, audit ConflictRecorder, log *logger.Logger) *RequestService {
	return &RequestService{requests: requests, attendance: attendance, clock: c, cfg: cfg, audit: audit, logger: log}
}

// CreateAdjustTimeInput carries the fields of an ADJUST_TIME create call.
type CreateAdjustTimeInput struct {
	Date                string
	CheckInDate         *string
	CheckOutDate        *string
	RequestedCheckInAt  *time.Time
	RequestedCheckOutAt *time.Time
	Reason              string
}

// CreateLeaveInput carries the fields of a LEAVE create call.
type CreateLeaveInput struct {
	StartDate string
	EndDate   string
	LeaveType *string
	Reason    string
}

// CreateOTInput carries the fields of an OT_REQUEST create call.
type CreateOTInput struct {
	Date             string
	EstimatedEndTime time.Time
	Reason           string
}

// CreateAdjustTime validates and persists an ADJUST_TIME request per
// spec's Rule 1 (session length) and Rule 2 (submission window).
func (s *RequestService) CreateAdjustTime(ctx context.Context, userID string, in CreateAdjustTimeInput) (*domain.Request, error) {
	if in.Reason == "" || len(in.Reason) > 1000 {
		return nil, errors.Validation(map[string]string{"reason": "must be non-empty and at most 1000 characters"})
	}
	if in.RequestedCheckInAt == nil && in.RequestedCheckOutAt == nil {
		return nil, errors.Validation(map[string]string{"requestedCheckInAt": "at least one of requestedCheckInAt/requestedCheckOutAt is required"})
	}
	if _, err := s.clock.ParseDateKey(in.Date); err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	if in.CheckOutDate != nil && in.CheckInDate != nil && *in.CheckOutDate < *in.CheckInDate {
		return nil, errors.Validation(map[string]string{"checkOutDate": "must be on or after checkInDate"})
	}
	if in.RequestedCheckInAt != nil && in.RequestedCheckOutAt != nil && !in.RequestedCheckOutAt.After(*in.RequestedCheckInAt) {
		return nil, errors.Validation(map[string]string{"requestedCheckOutAt": "must be strictly after requestedCheckInAt"})
	}

	existing, err := s.requests.FindPendingByUserDateType(ctx, userID, in.Date, domain.TypeAdjustTime)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("a pending adjust-time request already exists for this date")
	}

	anchorCheckIn, err := s.resolveAnchor(ctx, userID, in.Date, in.RequestedCheckInAt)
	if err != nil {
		return nil, err
	}

	effectiveCheckOut := in.RequestedCheckOutAt
	if effectiveCheckOut == nil {
		att, err := s.attendance.FindByUserDate(ctx, userID, in.Date)
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		if att != nil {
			effectiveCheckOut = att.CheckOutAt
		}
	} else if in.RequestedCheckInAt == nil {
		if !in.RequestedCheckOutAt.After(*anchorCheckIn) {
			return nil, errors.Validation(map[string]string{"requestedCheckOutAt": "must be strictly after the existing check-in"})
		}
	}

	if effectiveCheckOut != nil {
		if effectiveCheckOut.Sub(*anchorCheckIn).Hours() > s.cfg.GraceHours {
			return nil, errors.Validation(map[string]string{"requestedCheckOutAt": "session exceeds the maximum allowed duration"})
		}
	}

	if s.clock.Now().Sub(*anchorCheckIn) > s.cfg.SubmitWindowDays*24*time.Hour {
		return nil, errors.Validation(map[string]string{"date": "submitted too long after check-in"})
	}

	req := domain.NewAdjustTimeRequest(userID, in.Date, in.CheckInDate, in.CheckOutDate, in.RequestedCheckInAt, in.RequestedCheckOutAt, in.Reason)
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// resolveAnchor determines the existing check-in instant an ADJUST_TIME
// request is measured against: the request's own requestedCheckInAt when
// present, otherwise the Attendance record already on file for the date.
func (s *RequestService) resolveAnchor(ctx context.Context, userID, date string, requestedCheckInAt *time.Time) (*time.Time, error) {
	if requestedCheckInAt != nil {
		return requestedCheckInAt, nil
	}
	att, err := s.attendance.FindByUserDate(ctx, userID, date)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Validation(map[string]string{"date": "missing check-in reference"})
		}
		return nil, err
	}
	return &att.CheckInAt, nil
}

// CreateLeave validates and persists a LEAVE request.
func (s *RequestService) CreateLeave(ctx context.Context, userID string, in CreateLeaveInput) (*domain.Request, error) {
	if in.Reason == "" {
		return nil, errors.Validation(map[string]string{"reason": "is required"})
	}
	start, err := s.clock.ParseDateKey(in.StartDate)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	end, err := s.clock.ParseDateKey(in.EndDate)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	if end.Before(start) {
		return nil, errors.Validation(map[string]string{"leaveEndDate": "must be on or after leaveStartDate"})
	}
	if end.Sub(start).Hours()/24 > 30 {
		return nil, errors.Validation(map[string]string{"leaveEndDate": "span must not exceed 30 days"})
	}

	records, err := s.attendance.ListByUserMonth(ctx, userID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return nil, errors.Conflict("attendance already recorded on " + records[0].Date)
	}

	overlaps, err := s.requests.ListOverlappingLeave(ctx, userID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlaps) > 0 {
		return nil, errors.Conflict("overlaps an existing leave request")
	}

	days, err := s.clock.WorkdaysBetween(ctx, in.StartDate, in.EndDate)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	req := domain.NewLeaveRequest(userID, in.StartDate, in.EndDate, in.LeaveType, float64(days), in.Reason)
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// CreateOT validates and persists an OT_REQUEST.
func (s *RequestService) CreateOT(ctx context.Context, userID string, in CreateOTInput) (*domain.Request, error) {
	if in.Reason == "" {
		return nil, errors.Validation(map[string]string{"reason": "is required"})
	}
	if _, err := s.clock.ParseDateKey(in.Date); err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	if s.clock.DateKey(in.EstimatedEndTime) != in.Date {
		return nil, errors.Validation(map[string]string{"estimatedEndTime": "must fall on the nominal date"})
	}
	otStart, err := s.clock.AtTimeOfDay(in.Date, s.cfg.OTStart)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	if in.EstimatedEndTime.Sub(otStart) < s.cfg.MinOTDuration {
		return nil, errors.Validation(map[string]string{"estimatedEndTime": "must reach the minimum overtime duration"})
	}

	existing, err := s.requests.FindPendingByUserDateType(ctx, userID, in.Date, domain.TypeOTRequest)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("a pending overtime request already exists for this date")
	}

	req := domain.NewOTRequest(userID, in.Date, in.EstimatedEndTime, in.Reason)
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetForApproval fetches a request by id for the approve/reject handlers
// to resolve the submitter's team before checking policy.
func (s *RequestService) GetForApproval(ctx context.Context, id string) (*domain.Request, error) {
	return s.requests.GetByID(ctx, id)
}

// Get fetches a single request by id, for the single-request read
// endpoint. Ownership/role scoping is the caller's responsibility.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	return s.requests.GetByID(ctx, id)
}

// ListMine returns every request submitted by userID.
func (s *RequestService) ListMine(ctx context.Context, userID string) ([]*domain.Request, error) {
	return s.requests.ListByUser(ctx, userID)
}

// ListPending returns every PENDING request visible to the approver,
// userIDs being the scope resolved by the caller's role (nil for admin).
func (s *RequestService) ListPending(ctx context.Context, userIDs []string) ([]*domain.Request, error) {
	return s.requests.ListPendingForTeam(ctx, userIDs)
}

// Approve transitions id from PENDING to APPROVED, performing the
// ADJUST_TIME attendance upsert atomically with the status flip.
func (s *RequestService) Approve(ctx context.Context, id, approverID string) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, errors.Conflict("request is no longer pending")
	}

	if req.Type != domain.TypeAdjustTime {
		approved, err := s.requests.Approve(ctx, id, approverID, s.clock.Now())
		if errors.Is(err, errors.ErrConflict) {
			s.audit.RecordRequestApprovalConflict(ctx, id)
		}
		return approved, err
	}
	return s.approveAdjustTime(ctx, req, approverID)
}

func (s *RequestService) approveAdjustTime(ctx context.Context, req *domain.Request, approverID string) (*domain.Request, error) {
	anchor, err := s.resolveAnchor(ctx, req.UserID, *req.Date, req.RequestedCheckInAt)
	if err != nil {
		return nil, err
	}
	if s.clock.Now().Sub(*anchor) > s.cfg.SubmitWindowDays*24*time.Hour {
		return nil, errors.Validation(map[string]string{"date": "submitted too long after check-in"})
	}

	var approved *domain.Request
	err = s.requests.WithTx(ctx, func(ctx context.Context, _ *sqlx.Tx) error {
		a, err := s.requests.Approve(ctx, req.ID, approverID, s.clock.Now())
		if err != nil {
			return err
		}
		approved = a

		switch {
		case req.RequestedCheckInAt != nil && req.RequestedCheckOutAt != nil:
			otMinutes := attendanceService.OvertimeMinutes(s.cfg, s.clock.Location(), *req.Date, *req.RequestedCheckInAt, *req.RequestedCheckOutAt)
			return s.attendance.UpsertCheckOut(ctx, req.UserID, *req.Date, *req.RequestedCheckInAt, *req.RequestedCheckOutAt, otMinutes)
		case req.RequestedCheckOutAt != nil:
			otMinutes := attendanceService.OvertimeMinutes(s.cfg, s.clock.Location(), *req.Date, *anchor, *req.RequestedCheckOutAt)
			return s.attendance.UpsertCheckOut(ctx, req.UserID, *req.Date, *anchor, *req.RequestedCheckOutAt, otMinutes)
		case req.RequestedCheckInAt != nil:
			return s.attendance.UpsertCheckIn(ctx, req.UserID, *req.Date, *req.RequestedCheckInAt)
		default:
			return nil
		}
	})
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			s.audit.RecordRequestApprovalConflict(ctx, req.ID)
		}
		return nil, err
	}
	return approved, nil
}

// Reject transitions id from PENDING to REJECTED.
func (s *RequestService) Reject(ctx context.Context, id, approverID string) (*domain.Request, error) {
	rejected, err := s.requests.Reject(ctx, id, approverID, s.clock.Now())
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			s.audit.RecordRequestApprovalConflict(ctx, id)
		}
		return nil, err
	}
	return rejected, nil
}
