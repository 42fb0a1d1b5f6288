package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStore interface {
	InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error)
	ReviewsByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type ReviewsHandler struct {
	DB ReviewStore
}

type CreateReviewRequest struct {
	ProductID    string `json:"productId" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Text         string `json:"text" validate:"required,min=3"`
	ReviewerName string `json:"reviewerName"`
}

// Create posts a review against an accepted product. Reviews are immutable
// once written. POST /reviews
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "productId, rating 1-5 and text are required")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.DB.ProductByID(r.Context(), productID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if product.Status != models.StatusAccepted {
		writeError(w, http.StatusBadRequest, "reviews are only allowed on accepted products")
		return
	}
	review := &models.Review{
		ProductID:     productID,
		ReviewerEmail: email,
		ReviewerName:  req.ReviewerName,
		Rating:        req.Rating,
		Text:          req.Text,
		CreatedAt:     time.Now(),
	}
	id, err := h.DB.InsertReview(r.Context(), review)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save review")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id.Hex()})
}

// ListByProduct returns a product's reviews, newest first.
// GET /reviews/{productId}
func (h *ReviewsHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	reviews, err := h.DB.ReviewsByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
