// Package domain holds the AuditLog record: an append-only diagnostic
// trail distinct from business records, never consulted by business logic.
package domain

import (
	"encoding/json"
	"time"
)

const (
	KindStaleOpenSession        = "STALE_OPEN_SESSION"
	KindMultipleActiveSessions  = "MULTIPLE_ACTIVE_SESSIONS"
	KindPurgeExecuted           = "PURGE_EXECUTED"
	KindRequestApprovalConflict = "REQUEST_APPROVAL_CONFLICT"
)

// Entry is one append-only audit row. Details is stored as jsonb and kept
// as a RawMessage so the writer controls its shape per kind.
type Entry struct {
	ID        string          `db:"id" json:"id"`
	Kind      string          `db:"kind" json:"kind"`
	UserID    *string         `db:"user_id" json:"userId,omitempty"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}
