package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const emailKey contextKey = "email"

// TokenCookie is the httpOnly cookie carrying the signed credential.
const TokenCookie = "token"

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth verifies the token cookie and puts the caller's email into the request
// context. Missing or invalid credentials stop the request before any handler
// runs; verification is purely local, no store round trip.
func Auth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, `{"error":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			token, err := jwt.ParseWithClaims(cookie.Value, &Claims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Email == "" {
				http.Error(w, `{"error":"unauthorized access"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Email)))
		})
	}
}

// WithEmail returns a context carrying the authenticated caller's email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the authenticated caller's email, if any.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}
