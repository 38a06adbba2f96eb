package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-service/internal/request/domain"
	"github.com/attendly/attendance-service/internal/request/repository"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func TestRequestRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewRequestRepository(&database.DB{DB: mockDB.DB})

	now := time.Now()
	mockDB.Mock.ExpectQuery(`INSERT INTO requests`).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	date := "2026-07-20"
	req := domain.NewOTRequest("u1", date, time.Date(2026, 7, 20, 20, 0, 0, 0, time.UTC), "inventory count")
	err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, now, req.CreatedAt)
	mockDB.ExpectationsWereMet(t)
}

func TestRequestRepository_Approve_ConflictWhenAlreadyDecided(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewRequestRepository(&database.DB{DB: mockDB.DB})

	mockDB.Mock.ExpectExec(`UPDATE requests SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Approve(context.Background(), "req-1", "approver-1", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	mockDB.ExpectationsWereMet(t)
}

func TestRequestRepository_Approve_Succeeds(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewRequestRepository(&database.DB{DB: mockDB.DB})

	mockDB.Mock.ExpectExec(`UPDATE requests SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	row := testutil.MockRows(
		"id", "user_id", "type", "status",
		"date", "check_in_date", "check_out_date", "requested_check_in_at", "requested_check_out_at",
		"leave_start_date", "leave_end_date", "leave_type", "leave_days_count",
		"estimated_end_time", "actual_ot_minutes",
		"reason", "approved_by", "approved_at", "created_at", "updated_at",
	).AddRow(
		"req-1", "u1", domain.TypeOTRequest, domain.StatusApproved,
		"2026-07-20", nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil,
		"inventory count", "approver-1", now, now, now,
	)
	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM requests WHERE id = \$1`).
		WithArgs("req-1").
		WillReturnRows(row)

	got, err := repo.Approve(context.Background(), "req-1", "approver-1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	mockDB.ExpectationsWereMet(t)
}

func TestRequestRepository_ListPendingForTeam_UnrestrictedWhenNil(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewRequestRepository(&database.DB{DB: mockDB.DB})

	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM requests WHERE status = \$1 ORDER BY created_at ASC`).
		WithArgs(domain.StatusPending).
		WillReturnRows(testutil.MockRows(
			"id", "user_id", "type", "status",
			"date", "check_in_date", "check_out_date", "requested_check_in_at", "requested_check_out_at",
			"leave_start_date", "leave_end_date", "leave_type", "leave_days_count",
			"estimated_end_time", "actual_ot_minutes",
			"reason", "approved_by", "approved_at", "created_at", "updated_at",
		))

	items, err := repo.ListPendingForTeam(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	mockDB.ExpectationsWereMet(t)
}
