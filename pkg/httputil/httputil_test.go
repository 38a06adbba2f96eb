package httputil_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
)

func TestJSON_WritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.JSON(rec, 201, map[string]string{"ok": "yes"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "yes", body["ok"])
}

func TestCreated_UsesStatus201(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.Created(rec, map[string]string{"id": "1"})
	assert.Equal(t, 201, rec.Code)
}

func TestNoContent_WritesEmpty204Body(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.NoContent(rec)
	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestError_AppErrorUsesItsOwnStatusAndCode(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.Error(rec, apperrors.NotFound("user"))

	assert.Equal(t, 404, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "user not found", body["message"])
}

func TestError_NonAppErrorFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	httputil.Error(rec, errors.New("boom"))

	assert.Equal(t, 500, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

func TestNewPagination_ComputesTotalPages(t *testing.T) {
	p := httputil.NewPagination(1, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
}

func TestNewPagination_ZeroLimitYieldsZeroTotalPages(t *testing.T) {
	p := httputil.NewPagination(1, 0, 45)
	assert.Equal(t, 0, p.TotalPages)
}
