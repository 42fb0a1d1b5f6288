package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/service"
	"github.com/nexsy/server/store"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	SetSubscribed(ctx context.Context, email string, subscribed bool) error
}

type UsersHandler struct {
	DB UserStore
	// Mailer may be nil; subscription receipts are best-effort.
	Mailer     *service.Mailer
	PriceCents int64
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// Create registers a user on first sign-in. Repeat sign-ins answer with the
// original API's "already exists" shape instead of an error status.
// POST /users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	existing, err := h.DB.UserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "user already exists",
			"insertedId": nil,
		})
		return
	}
	user := &models.User{
		Email:      req.Email,
		Name:       req.Name,
		PhotoURL:   req.PhotoURL,
		Role:       models.RoleUser,
		Subscribed: false,
		CreatedAt:  time.Now(),
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost the race against a concurrent first sign-in; same outcome.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "user already exists",
			"insertedId": nil,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id.Hex()})
}

// List returns every user. Admin only. GET /users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateRole promotes or demotes a user. Admin only. PATCH /users/{id}
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}
	err = h.DB.UpdateUserRole(r.Context(), id, req.Role)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "No user updated."})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update role")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Role updated."})
}

// Delete removes a user by id. Admin only. DELETE /users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	err = h.DB.DeleteUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Role returns the stored role for an email so the frontend can render its
// menus. GET /users/role/{email}
func (h *UsersHandler) Role(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	user, err := h.DB.UserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": user.Role})
}

// Profile returns the caller's own document. GET /user/profile
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	user, err := h.DB.UserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Subscribe marks the caller as a paying member and mails a receipt when SMTP
// is configured. PATCH /user/subscribe
func (h *UsersHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok || email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	err := h.DB.SetSubscribed(r.Context(), email, true)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}
	if h.Mailer != nil {
		go func(to string, amount int64) {
			if err := h.Mailer.SendSubscriptionReceipt(to, amount); err != nil {
				log.Error().Err(err).Str("email", to).Msg("subscription receipt mail failed")
			}
		}(email, h.PriceCents)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
