package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attendanceRepo "github.com/attendly/attendance-service/internal/attendance/repository"
	requestRepo "github.com/attendly/attendance-service/internal/request/repository"
	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/internal/user/repository"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func sqlDriverResult(rowsAffected int64) driver.Result {
	return sqlmock.NewResult(0, rowsAffected)
}

func TestUserRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(&database.DB{DB: mockDB.DB}, nil, nil)

	now := time.Now()
	mockDB.Mock.ExpectQuery(`(?s)INSERT INTO users.*RETURNING created_at, updated_at`).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	u := &domain.User{
		EmployeeCode: "E001",
		Email:        "ada@attendly.example",
		Name:         "Ada Lovelace",
		Role:         domain.RoleEmployee,
		StartDate:    "2026-01-01",
		PasswordHash: "bcrypt-hash",
	}
	err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(&database.DB{DB: mockDB.DB}, nil, nil)

	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u1")
	require.Error(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_ListIDsByTeam(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(&database.DB{DB: mockDB.DB}, nil, nil)

	mockDB.ExpectQuery(`SELECT id FROM users WHERE team_id = $1 AND deleted_at IS NULL`).
		WithArgs("team-a").
		WillReturnRows(testutil.MockRows("id").AddRow("u1").AddRow("u2"))

	ids, err := repo.ListIDsByTeam(context.Background(), "team-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_PurgeEligible_CascadesThroughDependentRepositories(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	db := &database.DB{DB: mockDB.DB}
	attendances := attendanceRepo.NewAttendanceRepository(db)
	requests := requestRepo.NewRequestRepository(db)
	repo := repository.NewUserRepository(db, attendances, requests)

	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mockDB.Mock.ExpectBegin()
	mockDB.ExpectQuery(`SELECT id FROM users WHERE deleted_at IS NOT NULL AND deleted_at < $1`).
		WithArgs(cutoff).
		WillReturnRows(testutil.MockRows("id").AddRow("u1"))
	mockDB.ExpectExec(`DELETE FROM requests WHERE user_id = ANY($1)`).
		WillReturnResult(sqlDriverResult(2))
	mockDB.ExpectExec(`DELETE FROM attendance_records WHERE user_id = ANY($1)`).
		WillReturnResult(sqlDriverResult(3))
	mockDB.ExpectExec(`DELETE FROM users WHERE id = ANY($1)`).
		WillReturnResult(sqlDriverResult(1))
	mockDB.Mock.ExpectCommit()

	result, err := repo.PurgeEligible(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Purged)
	assert.Equal(t, int64(3), result.CascadeDeleted.Attendances)
	assert.Equal(t, int64(2), result.CascadeDeleted.Requests)
	mockDB.ExpectationsWereMet(t)
}
