package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexsy/server/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "handler-test-secret"

func TestIssueTokenSetsCookie(t *testing.T) {
	h := &AuthHandler{JWTSecret: authTestSecret}
	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"maya@example.com"}`))
	rec := httptest.NewRecorder()
	h.IssueToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.TokenCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "development cookies stay plain-HTTP friendly")

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "maya@example.com", claims.Email)
}

func TestIssueTokenProductionCookieFlags(t *testing.T) {
	h := &AuthHandler{JWTSecret: authTestSecret, Production: true}
	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"maya@example.com"}`))
	rec := httptest.NewRecorder()
	h.IssueToken(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
}

func TestIssueTokenRejectsBadEmail(t *testing.T) {
	h := &AuthHandler{JWTSecret: authTestSecret}
	for _, body := range []string{`{}`, `{"email":"nope"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.IssueToken(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := &AuthHandler{JWTSecret: authTestSecret}
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
