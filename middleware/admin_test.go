package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexsy/server/store"
	"github.com/stretchr/testify/assert"
)

type fakeRoles struct {
	roles map[string]string
	calls int
}

func (f *fakeRoles) UserRole(ctx context.Context, email string) (string, error) {
	f.calls++
	role, ok := f.roles[email]
	if !ok {
		return "", store.ErrNotFound
	}
	return role, nil
}

func adminProbe(roles RoleLookup) (http.Handler, *bool) {
	var reached bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return AdminOnly(roles)(h), &reached
}

func TestAdminOnly(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{
		"admin@example.com": "admin",
		"user@example.com":  "user",
	}}

	tests := []struct {
		name       string
		email      string
		wantStatus int
		wantPass   bool
	}{
		{"admin passes", "admin@example.com", http.StatusOK, true},
		{"plain user forbidden", "user@example.com", http.StatusForbidden, false},
		{"unknown user forbidden", "ghost@example.com", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, reached := adminProbe(roles)
			req := httptest.NewRequest(http.MethodGet, "/admin/statistics", nil)
			req = req.WithContext(WithEmail(req.Context(), tt.email))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantPass, *reached)
		})
	}
}

func TestAdminOnlyWithoutIdentity(t *testing.T) {
	handler, reached := adminProbe(&fakeRoles{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/statistics", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAdminOnlyChecksStoreEveryRequest(t *testing.T) {
	roles := &fakeRoles{roles: map[string]string{"admin@example.com": "admin"}}
	handler, _ := adminProbe(roles)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req = req.WithContext(WithEmail(req.Context(), "admin@example.com"))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 3, roles.calls, "role must be re-read per request, not cached")
}
