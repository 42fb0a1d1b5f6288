package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/middleware"
	"github.com/nexsy/server/models"
	"github.com/nexsy/server/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageLimit  = 6
	discoveryPageSize = 8 // trending and featured windows
)

type ProductStore interface {
	InsertProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error)
	ProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	AllProducts(ctx context.Context) ([]models.Product, error)
	ProductsByOwner(ctx context.Context, email string) ([]models.Product, error)
	AcceptedProducts(ctx context.Context, search string, page, limit int64) ([]models.Product, int64, error)
	TrendingProducts(ctx context.Context, limit int64) ([]models.Product, error)
	FeaturedProducts(ctx context.Context, limit int64) ([]models.Product, error)
	ReportedProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductStatus(ctx context.Context, id primitive.ObjectID, status *string, featured *bool) error
	UpdateProductDetails(ctx context.Context, id primitive.ObjectID, p *models.Product) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	UpvoteProduct(ctx context.Context, id primitive.ObjectID, voter string) (*models.Product, error)
	ReportProduct(ctx context.Context, id primitive.ObjectID, reporter string) error
	ClearReports(ctx context.Context, id primitive.ObjectID) error
}

type ProductsHandler struct {
	DB ProductStore
	// Roles resolves whether a caller may act on products they do not own.
	Roles middleware.RoleLookup
}

type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=120"`
	Description string   `json:"description" validate:"required,min=10"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,required"`
	ExternalURL string   `json:"externalUrl" validate:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	OwnerName   string   `json:"ownerName"`
}

// Create submits a product for moderation. Status always starts pending and
// the counters zeroed regardless of the payload. POST /products
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "title, description and at least one tag are required")
		return
	}
	product := &models.Product{
		OwnerEmail:  email,
		OwnerName:   req.OwnerName,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		ExternalURL: req.ExternalURL,
		ImageURL:    req.ImageURL,
		Status:      models.StatusPending,
		Upvotes:     0,
		Voters:      []string{},
		Reporters:   []string{},
		CreatedAt:   time.Now(),
	}
	id, err := h.DB.InsertProduct(r.Context(), product)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save product")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": id.Hex()})
}

// List returns every product for the moderation queue. Admin only.
// GET /products
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.AllProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Mine returns the caller's own submissions. GET /myProducts
func (h *ProductsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	products, err := h.DB.ProductsByOwner(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

type AcceptedProductsResponse struct {
	Products   []models.Product `json:"products"`
	TotalPages int64            `json:"totalPages"`
}

// Accepted is the public paginated listing with tag search.
// GET /acceptedProducts?search=&page=&limit=
func (h *ProductsHandler) Accepted(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)
	products, total, err := h.DB.AcceptedProducts(r.Context(), search, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, AcceptedProductsResponse{
		Products:   products,
		TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
	})
}

// Trending lists accepted products by vote count. GET /trendingProducts
func (h *ProductsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.TrendingProducts(r.Context(), discoveryPageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Featured lists admin-featured accepted products. GET /featuredProducts
func (h *ProductsHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.FeaturedProducts(r.Context(), discoveryPageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns one product. GET /product/{id}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
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
	writeJSON(w, http.StatusOK, product)
}

type ModerateProductRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=pending Accepted Rejected"`
	Featured *bool   `json:"featured"`
}

// Moderate updates status and/or the featured flag. Admin only.
// PATCH /products/{id}
func (h *ProductsHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req ModerateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "status must be pending, Accepted or Rejected")
		return
	}
	if req.Status == nil && req.Featured == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	err = h.DB.UpdateProductStatus(r.Context(), id, req.Status, req.Featured)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "No product updated."})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Product status updated."})
}

type UpdateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=120"`
	Description string   `json:"description" validate:"required,min=10"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,required"`
	ExternalURL string   `json:"externalUrl" validate:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
}

// Update lets the owner edit their submission. PATCH /product/{id}
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "title, description and at least one tag are required")
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
		writeError(w, http.StatusForbidden, "you can only edit your own products")
		return
	}
	update := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		ExternalURL: req.ExternalURL,
		ImageURL:    req.ImageURL,
	}
	if err := h.DB.UpdateProductDetails(r.Context(), id, update); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete removes a product. Owners may delete their own; admins may delete
// any. DELETE /products/{id}
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
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
	if product.OwnerEmail != email && !h.isAdmin(r.Context(), email) {
		writeError(w, http.StatusForbidden, "you can only delete your own products")
		return
	}
	if err := h.DB.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": 1})
}

// Upvote counts a vote at most once per caller. Re-votes and self-votes are
// conflicts. PATCH /products/upvote/{id}
func (h *ProductsHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
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
	if product.OwnerEmail == email {
		writeError(w, http.StatusConflict, "you cannot upvote your own product")
		return
	}
	updated, err := h.DB.UpvoteProduct(r.Context(), id, email)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "you have already upvoted this product")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upvote product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "upvotes": updated.Upvotes})
}

// Report flags a product for moderation; repeat reports from the same caller
// are absorbed. POST /products/report/{id}
func (h *ProductsHandler) Report(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	err = h.DB.ReportProduct(r.Context(), id, email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to report product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reported lists products carrying at least one report. Admin only.
// GET /products/reported
func (h *ProductsHandler) Reported(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.ReportedProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reported products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// IgnoreReports clears a product's reporter set. Admin only.
// PATCH /products/ignore-report/{id}
func (h *ProductsHandler) IgnoreReports(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	err = h.DB.ClearReports(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear reports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ProductsHandler) isAdmin(ctx context.Context, email string) bool {
	if h.Roles == nil {
		return false
	}
	role, err := h.Roles.UserRole(ctx, email)
	return err == nil && role == models.RoleAdmin
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
