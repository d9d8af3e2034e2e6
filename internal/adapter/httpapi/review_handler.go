package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/bazarly/backend/internal/adapter/httpapi/middleware"
	"github.com/bazarly/backend/internal/marketplace/usecase"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	logger  *logger.Logger
}

func NewReviewHandler(reviews *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: log}
}

type createReviewRequest struct {
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), req.ListingID, userID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) HandleSellerReviews(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")

	reviews, err := h.reviews.ReviewsForSeller(r.Context(), sellerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) HandleSellerRating(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")

	average, count, err := h.reviews.SellerRating(r.Context(), sellerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seller_id": sellerID,
		"average":   average,
		"count":     count,
	})
}
