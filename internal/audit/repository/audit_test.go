package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-service/internal/audit/domain"
	"github.com/attendly/attendance-service/internal/audit/repository"
	"github.com/attendly/attendance-service/pkg/database"
	"github.com/attendly/attendance-service/pkg/testutil"
)

func TestAuditRepository_Insert(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(&database.DB{DB: mockDB.DB})

	now := time.Now()
	mockDB.Mock.ExpectQuery(`INSERT INTO audit_log`).
		WillReturnRows(testutil.MockRows("created_at").AddRow(now))

	entry := &domain.Entry{Kind: domain.KindStaleOpenSession, Details: []byte(`{"date":"2026-07-20"}`)}
	err := repo.Insert(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, now, entry.CreatedAt)
	mockDB.ExpectationsWereMet(t)
}

func TestAuditRepository_List_ClampsLimit(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(&database.DB{DB: mockDB.DB})

	rows := testutil.MockRows("id", "kind", "user_id", "details", "created_at").
		AddRow("e1", domain.KindPurgeExecuted, nil, []byte(`{"purged":3}`), time.Now())
	mockDB.Mock.ExpectQuery(`SELECT id, kind, user_id, details, created_at FROM audit_log ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.KindPurgeExecuted, entries[0].Kind)
	mockDB.ExpectationsWereMet(t)
}
