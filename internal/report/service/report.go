// Package service implements the reporting view: a thin, unmaterialized
// read model over Attendance (counts by derived status per range/team),
// distinct from the out-of-scope Excel-rendered monthly report.
package service

import (
	"context"

	"github.com/attendly/attendance-service/internal/attendance/domain"
	"github.com/attendly/attendance-service/pkg/logger"
)

// Summarizer is the subset of the Attendance Engine this view reads from.
type Summarizer interface {
	Summarize(ctx context.Context, start, end string, userIDs map[string]bool) (map[domain.Status]int, error)
}

// ReportService computes live status-count summaries.
type ReportService struct {
	attendance Summarizer
	logger     *logger.Logger
}

// NewReportService creates a new report service.
func NewReportService(attendance Summarizer, log *logger.Logger) *ReportService {
	return &ReportService{attendance: attendance, logger: log}
}

// Summary is a flat status-count breakdown over a date range.
type Summary struct {
	Start  string         `json:"start"`
	End    string         `json:"end"`
	Counts map[string]int `json:"counts"`
}

// Attendance computes the status-count summary for [start, end], scoped to
// userIDs (nil means unrestricted).
func (s *ReportService) Attendance(ctx context.Context, start, end string, userIDs map[string]bool) (*Summary, error) {
	counts, err := s.attendance.Summarize(ctx, start, end, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	return &Summary{Start: start, End: end, Counts: out}, nil
}
