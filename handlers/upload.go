package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/service"
	"github.com/nexsy/server/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductImageStore interface {
	ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	SetProductImage(ctx context.Context, id primitive.ObjectID, url string) error
}

type UploadHandler struct {
	DB       ProductImageStore
	S3       *service.S3Service // nil when object storage is not configured
	MaxBytes int64
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// UploadImage stores a product logo in S3 and records its URL on the
// product. Owner only. POST /products/{id}/image
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if h.S3 == nil {
		writeError(w, http.StatusServiceUnavailable, "image upload not configured")
		return
	}
	product, err := h.DB.ProductByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if product.OwnerEmail != email {
		writeError(w, http.StatusForbidden, "you can only upload images for your own products")
		return
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}
	url, err := h.S3.UploadImage(r.Context(), "products/", header.Filename, file, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if err := h.DB.SetProductImage(r.Context(), id, url); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{ImageURL: url})
}
