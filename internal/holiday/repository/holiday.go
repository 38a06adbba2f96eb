// Package repository implements clock.HolidayStore against the holidays
// table. Holiday management itself has no HTTP surface; holidays are
// treated purely as an input to calendar classification, not an
// independently managed resource.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/attendly/attendance-service/pkg/database"
)

// HolidayRepository answers whether a date-key is a company holiday.
type HolidayRepository struct {
	db *database.DB
}

// NewHolidayRepository creates a new holiday repository.
func NewHolidayRepository(db *database.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// IsHoliday implements clock.HolidayStore.
func (r *HolidayRepository) IsHoliday(ctx context.Context, dateKey string) (bool, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM holidays WHERE date_key = $1`, dateKey)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup holiday: %w", err)
	}
	return true, nil
}
