package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-service/internal/audit/repository"
	"github.com/attendly/attendance-service/internal/audit/service"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/logger"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func newRecorder(t *testing.T) (*service.Recorder, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(&database.DB{DB: mockDB.DB})
	return service.NewRecorder(repo, logger.New("attendance-service-test", "test")), mockDB
}

func TestRecorder_RecordStaleOpenSession_Inserts(t *testing.T) {
	rec, mockDB := newRecorder(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`INSERT INTO audit_log`).
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))

	rec.RecordStaleOpenSession(context.Background(), "2026-07-20", []string{"a1", "a2"})
	mockDB.ExpectationsWereMet(t)
}

func TestRecorder_RecordPurgeExecuted_SwallowsWriteFailure(t *testing.T) {
	rec, mockDB := newRecorder(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`INSERT INTO audit_log`).
		WillReturnError(errors.New("connection reset"))

	assert.NotPanics(t, func() {
		rec.RecordPurgeExecuted(context.Background(), "admin-1", 3, 2, 5)
	})
	mockDB.ExpectationsWereMet(t)
}

func TestRecorder_List_DelegatesToRepository(t *testing.T) {
	rec, mockDB := newRecorder(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(`SELECT id, kind, user_id, details, created_at FROM audit_log ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(testutil.MockRows("id", "kind", "user_id", "details", "created_at"))

	entries, err := rec.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	mockDB.ExpectationsWereMet(t)
}
