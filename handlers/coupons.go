package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponStore interface {
	InsertCoupon(ctx context.Context, c *models.Coupon) (primitive.ObjectID, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	UpdateCoupon(ctx context.Context, id primitive.ObjectID, c *models.Coupon) (int64, error)
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) (int64, error)
	ValidCouponByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
}

type CouponsHandler struct {
	DB CouponStore
}

// CouponRequest accepts discount as either a JSON number or a numeric
// string; the original clients sent both and the value must be persisted as
// a number either way.
type CouponRequest struct {
	Code        string      `json:"code"`
	Discount    json.Number `json:"discount"`
	ExpiryDate  string      `json:"expiryDate"`
	Description string      `json:"description"`
}

func (req *CouponRequest) toModel() (*models.Coupon, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, errors.New("code is required")
	}
	discount, err := req.Discount.Int64()
	if err != nil || discount < 1 || discount > 100 {
		return nil, errors.New("discount must be a number between 1 and 100")
	}
	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, errors.New("expiryDate must be a date (YYYY-MM-DD)")
	}
	return &models.Coupon{
		Code:        code,
		Discount:    discount,
		ExpiryDate:  expiry,
		Description: req.Description,
	}, nil
}

func parseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	// Date-only coupons stay redeemable through their last day.
	return t.Add(24*time.Hour - time.Second), nil
}

// List returns all coupons, newest first. GET /api/coupons
func (h *CouponsHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.DB.ListCoupons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch coupons")
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

// Create adds a coupon. Admin only. POST /api/coupons
func (h *CouponsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	coupon.CreatedAt = time.Now()
	id, err := h.DB.InsertCoupon(r.Context(), coupon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save coupon")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id.Hex()})
}

// Update replaces a coupon's fields. Admin only. PUT /api/coupons/{id}
func (h *CouponsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}
	var req CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	modified, err := h.DB.UpdateCoupon(r.Context(), id, coupon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update coupon")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"modifiedCount": modified})
}

// Delete removes a coupon. Admin only. DELETE /api/coupons/{id}
func (h *CouponsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}
	deleted, err := h.DB.DeleteCoupon(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}

// Validate checks a code at checkout and returns the coupon when it is still
// redeemable. GET /api/couponCode?code=SAVE10
func (h *CouponsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	coupon, err := h.DB.ValidCouponByCode(r.Context(), code, time.Now())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "coupon not found or expired")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to look up coupon")
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}
