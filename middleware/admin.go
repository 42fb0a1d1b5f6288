package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/nexsy/server/models"
	"github.com/nexsy/server/store"
)

// RoleLookup resolves a user's stored role by email. Satisfied by *store.DB;
// tests substitute a fake.
type RoleLookup interface {
	UserRole(ctx context.Context, email string) (string, error)
}

// AdminOnly runs after Auth and rejects callers whose stored role is not
// admin. The role is read from the user store on every request rather than
// trusted from the token, so demotions take effect immediately.
func AdminOnly(roles RoleLookup) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			role, err := roles.UserRole(r.Context(), email)
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, `{"error":"forbidden access"}`, http.StatusForbidden)
				return
			}
			if err != nil {
				http.Error(w, `{"error":"failed to verify role"}`, http.StatusInternalServerError)
				return
			}
			if role != models.RoleAdmin {
				http.Error(w, `{"error":"forbidden access"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
