package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexsy/server/middleware"
)

// tokenTTL matches the original issue policy: credentials are stateless and
// live until expiry, logout only clears the client-held cookie.
const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	JWTSecret string
	// Production switches the cookie to Secure + SameSite=None for the
	// cross-site frontend; development keeps SameSite=Strict over plain HTTP.
	Production bool
}

type IssueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// IssueToken signs a credential for the given email and sets it as an
// httpOnly cookie. POST /jwt
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	claims := &middleware.Claims{
		Email: req.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	http.SetCookie(w, h.tokenCookie(signed, int(tokenTTL.Seconds())))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout expires the cookie. GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokenCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if h.Production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: sameSite,
	}
}
