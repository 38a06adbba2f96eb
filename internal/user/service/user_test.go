package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendance-service/internal/user/domain"
	"github.com/attendly/attendance-service/internal/user/repository"
	userservice "github.com/attendly/attendance-service/internal/user/service"
	"github.com/attendly/attendance-service/pkg/clock"
	"github.com/attendly/attendance-service/pkg/config"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func testConfig() config.BusinessConfig {
	return config.BusinessConfig{RetentionDays: 15}
}

func newService(t *testing.T, fixedNow time.Time) (*userservice.UserService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewUserRepository(&database.DB{DB: mockDB.DB}, nil, nil)
	c := clock.Fixed(fixedNow, nil)
	return userservice.NewUserService(repo, c, testConfig(), nil), mockDB
}

func TestUserService_Create_RejectsShortPassword(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	_, err := svc.Create(context.Background(), domain.CreateInput{
		EmployeeCode: "E001", Email: "a@b.com", Name: "A", Role: domain.RoleEmployee,
		StartDate: "2026-01-01", PlainPassword: "short",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUserService_Create_RejectsInvalidRole(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	_, err := svc.Create(context.Background(), domain.CreateInput{
		EmployeeCode: "E001", Email: "a@b.com", Name: "A", Role: "OWNER",
		StartDate: "2026-01-01", PlainPassword: "longenough",
	})
	require.Error(t, err)
}

func TestUserService_Create_NormalizesAndHashesPassword(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	now := time.Now()
	mockDB.Mock.ExpectQuery(`(?s)INSERT INTO users.*RETURNING created_at, updated_at`).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	u, err := svc.Create(context.Background(), domain.CreateInput{
		EmployeeCode: "  E001  ", Email: "  Ada@Attendly.example  ", Name: "  Ada  ",
		Role: domain.RoleEmployee, StartDate: "2026-01-01", PlainPassword: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "E001", u.EmployeeCode)
	assert.Equal(t, "ada@attendly.example", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")))
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_TeamMemberOf(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs("u1").
		WillReturnRows(testutil.MockRows(
			"id", "employee_code", "email", "username", "password_hash", "name", "role", "team_id",
			"start_date", "is_active", "created_at", "updated_at", "deleted_at",
		).AddRow("u1", "E001", "a@b.com", "", "hash", "A", domain.RoleEmployee, "team-a",
			"2026-01-01", true, time.Now(), time.Now(), nil))

	member, err := svc.TeamMemberOf(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", member.UserID)
	assert.Equal(t, "team-a", member.TeamID)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_SoftDelete_RejectsSelfDelete(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	_, err := svc.SoftDelete(context.Background(), "u1", "u1")
	require.Error(t, err)
}

func TestUserService_SoftDelete_ReturnsPurgeDeadline(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, mockDB := newService(t, now)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec(`UPDATE users SET deleted_at = NOW\(\), is_active = false WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deadline, err := svc.SoftDelete(context.Background(), "admin-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 15), deadline)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_Restore_RejectsPastRetentionWindow(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, mockDB := newService(t, now)
	defer mockDB.Close()

	deletedAt := now.AddDate(0, 0, -20)
	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(testutil.MockRows(
			"id", "employee_code", "email", "username", "password_hash", "name", "role", "team_id",
			"start_date", "is_active", "created_at", "updated_at", "deleted_at",
		).AddRow("u1", "E001", "a@b.com", "", "hash", "A", domain.RoleEmployee, "",
			"2026-01-01", false, now, now, deletedAt))

	err := svc.Restore(context.Background(), "u1")
	require.Error(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_Restore_RejectsNotDeleted(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, mockDB := newService(t, now)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(testutil.MockRows(
			"id", "employee_code", "email", "username", "password_hash", "name", "role", "team_id",
			"start_date", "is_active", "created_at", "updated_at", "deleted_at",
		).AddRow("u1", "E001", "a@b.com", "", "hash", "A", domain.RoleEmployee, "",
			"2026-01-01", true, now, now, nil))

	err := svc.Restore(context.Background(), "u1")
	require.Error(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_List_ClampsLimitToBounds(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(testutil.MockRows("count").AddRow(0))
	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users.*LIMIT \$2 OFFSET \$3`).
		WithArgs(false, 1, 0).
		WillReturnRows(testutil.MockRows(
			"id", "employee_code", "email", "username", "password_hash", "name", "role", "team_id",
			"start_date", "is_active", "created_at", "updated_at", "deleted_at",
		))

	_, _, err := svc.List(context.Background(), domain.ListFilter{Limit: 0})
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_List_CapsLimitAt100(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(testutil.MockRows("count").AddRow(0))
	mockDB.Mock.ExpectQuery(`(?s)SELECT.*FROM users.*LIMIT \$2 OFFSET \$3`).
		WithArgs(false, 100, 0).
		WillReturnRows(testutil.MockRows(
			"id", "employee_code", "email", "username", "password_hash", "name", "role", "team_id",
			"start_date", "is_active", "created_at", "updated_at", "deleted_at",
		))

	_, _, err := svc.List(context.Background(), domain.ListFilter{Limit: 101})
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestUserService_ResetPassword_RejectsShortPassword(t *testing.T) {
	svc, mockDB := newService(t, time.Now())
	defer mockDB.Close()

	err := svc.ResetPassword(context.Background(), "u1", "short")
	require.Error(t, err)
}
