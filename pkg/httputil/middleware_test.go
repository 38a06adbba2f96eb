package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/attendly/attendance-service/pkg/errors"
	"github.com/attendly/attendance-service/pkg/httputil"
)

type fakeVerifier struct {
	principal httputil.Principal
	err       error
}

func (f fakeVerifier) Verify(token string) (httputil.Principal, error) {
	return f.principal, f.err
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	handlerCalled := false
	mw := httputil.AuthMiddleware(fakeVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerCalled)
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	mw := httputil.AuthMiddleware(fakeVerifier{err: apperrors.TokenInvalid()})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_AttachesPrincipalOnSuccess(t *testing.T) {
	want := httputil.Principal{UserID: "u1", Role: "MANAGER", TeamID: "team-a"}
	var got httputil.Principal
	var ok bool

	mw := httputil.AuthMiddleware(fakeVerifier{principal: want})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = httputil.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	mw := httputil.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	var seen string
	mw := httputil.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", seen)
}

func TestGetPrincipal_NotSetReturnsFalse(t *testing.T) {
	_, ok := httputil.GetPrincipal(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
