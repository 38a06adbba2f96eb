// Package service implements audit.Recorder, consumed by the attendance
// and request engines as narrow interfaces so neither imports this
// package's concrete type.
package service

import (
	"context"
	"encoding/json"

	"github.com/attendly/attendance-service/internal/audit/domain"
	"github.com/attendly/attendance-service/internal/audit/repository"
	"github.com/attendly/attendance-service/pkg/logger"
)

// Recorder writes operational audit entries. Every method swallows its own
// write failure (logging it) rather than propagating it, since an audit
// miss must never fail the business operation that triggered it.
type Recorder struct {
	repo   *repository.AuditRepository
	logger *logger.Logger
}

// NewRecorder creates a new audit recorder.
func NewRecorder(repo *repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logger: log}
}

func (r *Recorder) insert(ctx context.Context, kind string, userID *string, details interface{}) {
	raw, err := json.Marshal(details)
	if err != nil {
		r.logger.Error().Err(err).Str("kind", kind).Msg("failed to marshal audit details")
		return
	}
	entry := &domain.Entry{Kind: kind, UserID: userID, Details: raw}
	if err := r.repo.Insert(ctx, entry); err != nil {
		r.logger.Error().Err(err).Str("kind", kind).Msg("failed to write audit entry")
	}
}

// RecordStaleOpenSession logs a blocked checkout caused by a stale open
// session, capped to the session ids the caller already capped.
func (r *Recorder) RecordStaleOpenSession(ctx context.Context, staleDate string, sessionIDs []string) {
	r.insert(ctx, domain.KindStaleOpenSession, nil, map[string]interface{}{
		"stale_date":  staleDate,
		"session_ids": sessionIDs,
	})
}

// RecordMultipleActiveSessions logs that more than one open session existed
// globally at check-out time.
func (r *Recorder) RecordMultipleActiveSessions(ctx context.Context, sessionIDs []string) {
	r.insert(ctx, domain.KindMultipleActiveSessions, nil, map[string]interface{}{
		"session_ids": sessionIDs,
	})
}

// RecordPurgeExecuted logs an admin-triggered purge sweep's outcome, broken
// down by the table each cascade-deleted row came from.
func (r *Recorder) RecordPurgeExecuted(ctx context.Context, adminID string, purged, attendancesDeleted, requestsDeleted int64) {
	r.insert(ctx, domain.KindPurgeExecuted, &adminID, map[string]interface{}{
		"purged": purged,
		"cascade_deleted": map[string]int64{
			"attendances": attendancesDeleted,
			"requests":    requestsDeleted,
		},
	})
}

// RecordRequestApprovalConflict logs a losing concurrent approve/reject
// attempt on a request that had already left PENDING.
func (r *Recorder) RecordRequestApprovalConflict(ctx context.Context, requestID string) {
	r.insert(ctx, domain.KindRequestApprovalConflict, nil, map[string]interface{}{
		"request_id": requestID,
	})
}

// List returns recent audit entries for the admin-only read endpoint.
func (r *Recorder) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	return r.repo.List(ctx, limit)
}
