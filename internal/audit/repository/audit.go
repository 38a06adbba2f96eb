package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/attendly/attendance-service/internal/audit/domain"
	"github.com/attendly/attendance-service/pkg/database"
)

const auditColumns = `id, kind, user_id, details, created_at`

// AuditRepository persists append-only operational audit entries.
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends a new audit row. Entries are never updated or deleted by
// this package.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `INSERT INTO audit_log (id, kind, user_id, details) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.db.QueryRowxContext(ctx, query, e.ID, e.Kind, e.UserID, e.Details).Scan(&e.CreatedAt)
	if err != nil {
		return database.WrapError(err)
	}
	return nil
}

// List returns the most recent audit entries, newest first, capped at limit.
func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM audit_log ORDER BY created_at DESC LIMIT $1`, auditColumns)
	var rows []*domain.Entry
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return rows, nil
}
