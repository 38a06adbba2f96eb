package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-service/internal/attendance/domain"
	"github.com/attendly/attendance-service/internal/attendance/repository"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func TestAttendanceRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewAttendanceRepository(&database.DB{DB: mockDB.DB})

	now := time.Now()
	mockDB.Mock.ExpectQuery(`(?s)INSERT INTO attendance_records.*RETURNING created_at, updated_at`).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	a := &domain.Attendance{UserID: "u1", Date: "2026-07-20", CheckInAt: now}
	err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_FindByUserDate_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewAttendanceRepository(&database.DB{DB: mockDB.DB})

	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM attendance_records WHERE user_id = \$1 AND date = \$2`).
		WithArgs("u1", "2026-07-20").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserDate(context.Background(), "u1", "2026-07-20")
	require.Error(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestAttendanceRepository_FindOpenByUser(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewAttendanceRepository(&database.DB{DB: mockDB.DB})

	checkIn := time.Now()
	row := testutil.MockRows("id", "user_id", "date", "check_in_at", "check_out_at", "overtime_minutes", "created_at", "updated_at").
		AddRow("a1", "u1", "2026-07-20", checkIn, nil, 0, checkIn, checkIn)
	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM attendance_records WHERE user_id = \$1 AND check_out_at IS NULL`).
		WithArgs("u1").
		WillReturnRows(row)

	a, err := repo.FindOpenByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.IsOpen())
	mockDB.ExpectationsWereMet(t)
}
