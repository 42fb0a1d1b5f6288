package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/service"
	"github.com/nexsy/server/store"
	"github.com/rs/zerolog/log"
)

type PaymentStore interface {
	InsertPayment(ctx context.Context, p *models.Payment) error
	ValidCouponByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
}

type PaymentsHandler struct {
	DB PaymentStore
	// Stripe is nil when STRIPE_SECRET_KEY is unset; checkout then 503s.
	Stripe     service.PaymentIntentCreator
	PriceCents int64
}

type CreatePaymentIntentRequest struct {
	CouponCode string `json:"couponCode"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
}

// CreateIntent starts a membership checkout: applies an optional coupon to
// the configured price and asks the provider for a PaymentIntent. Provider
// failures are terminal for the request, no retries.
// POST /create-payment-intent
func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	if h.Stripe == nil {
		writeError(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}
	var req CreatePaymentIntentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	amount := h.PriceCents
	if req.CouponCode != "" {
		coupon, err := h.DB.ValidCouponByCode(r.Context(), req.CouponCode, time.Now())
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "coupon not found or expired")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to look up coupon")
			return
		}
		amount -= amount * coupon.Discount / 100
	}
	// Stripe rejects amounts under its processing minimum.
	if amount < 50 {
		amount = 50
	}
	clientSecret, intentID, err := h.Stripe.CreatePaymentIntent(email, amount)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("payment intent creation failed")
		writeError(w, http.StatusInternalServerError, "failed to create payment intent")
		return
	}
	payment := &models.Payment{
		Email:       email,
		AmountCents: amount,
		CouponCode:  req.CouponCode,
		IntentID:    intentID,
		CreatedAt:   time.Now(),
	}
	if err := h.DB.InsertPayment(r.Context(), payment); err != nil {
		// The intent exists provider-side; losing the audit row should not
		// fail the checkout.
		log.Error().Err(err).Str("intent", intentID).Msg("failed to record payment")
	}
	writeJSON(w, http.StatusOK, CreatePaymentIntentResponse{
		ClientSecret: clientSecret,
		AmountCents:  amount,
	})
}
