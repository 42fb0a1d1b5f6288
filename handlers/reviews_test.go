package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nexsy/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func reviewsRouter(db *fakeStore) *chi.Mux {
	h := &ReviewsHandler{DB: db}
	r := chi.NewRouter()
	r.Post("/reviews", h.Create)
	r.Get("/reviews/{productId}", h.ListByProduct)
	return r
}

func TestCreateReviewOnAcceptedProduct(t *testing.T) {
	db := newFakeStore()
	id := seedProduct(db, "owner@example.com", "DevDeck", models.StatusAccepted, "tools")
	router := reviewsRouter(db)

	body := fmt.Sprintf(`{"productId":"%s","rating":5,"text":"great little tool"}`, id.Hex())
	rec := doJSON(t, router, http.MethodPost, "/reviews", "fan@example.com", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, db.reviews, 1)
	assert.Equal(t, "fan@example.com", db.reviews[0].ReviewerEmail)

	rec = doJSON(t, router, http.MethodGet, "/reviews/"+id.Hex(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestCreateReviewRejectsPendingProduct(t *testing.T) {
	db := newFakeStore()
	id := seedProduct(db, "owner@example.com", "DevDeck", models.StatusPending, "tools")
	router := reviewsRouter(db)

	body := fmt.Sprintf(`{"productId":"%s","rating":4,"text":"not out yet"}`, id.Hex())
	rec := doJSON(t, router, http.MethodPost, "/reviews", "fan@example.com", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, db.reviews)
}

func TestCreateReviewValidation(t *testing.T) {
	db := newFakeStore()
	id := seedProduct(db, "owner@example.com", "DevDeck", models.StatusAccepted, "tools")
	router := reviewsRouter(db)

	tests := []struct {
		name string
		body string
	}{
		{"missing product", `{"rating":5,"text":"great"}`},
		{"rating too high", fmt.Sprintf(`{"productId":"%s","rating":6,"text":"great"}`, id.Hex())},
		{"missing text", fmt.Sprintf(`{"productId":"%s","rating":3}`, id.Hex())},
		{"unknown product", fmt.Sprintf(`{"productId":"%s","rating":3,"text":"hmm"}`, primitive.NewObjectID().Hex())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/reviews", "fan@example.com", tt.body)
			assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, rec.Code)
		})
	}
	assert.Empty(t, db.reviews)
}
