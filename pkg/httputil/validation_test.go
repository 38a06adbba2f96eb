package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
)

type loginPayload struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

func TestValidate_RejectsMissingRequiredField(t *testing.T) {
	err := httputil.Validate(loginPayload{Identifier: "", Password: "longenough"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "Identifier")
}

func TestValidate_RejectsBelowMinLength(t *testing.T) {
	err := httputil.Validate(loginPayload{Identifier: "u1", Password: "short"})
	require.Error(t, err)
}

func TestValidate_AcceptsValidPayload(t *testing.T) {
	err := httputil.Validate(loginPayload{Identifier: "u1", Password: "longenough"})
	assert.NoError(t, err)
}

func TestDecodeJSON_RejectsNilBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = nil

	var v loginPayload
	err := httputil.DecodeJSON(req, &v)
	require.Error(t, err)
}

func TestDecodeJSON_RejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"identifier":`))

	var v loginPayload
	err := httputil.DecodeJSON(req, &v)
	require.Error(t, err)
}

func TestDecodeJSON_DecodesValidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"identifier":"u1","password":"secret"}`))

	var v loginPayload
	err := httputil.DecodeJSON(req, &v)
	require.NoError(t, err)
	assert.Equal(t, "u1", v.Identifier)
}
