package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/bazarly/backend/internal/adapter/httpapi/middleware"
	"github.com/bazarly/backend/internal/adapter/repository/cache"
	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/marketplace/usecase"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxPhotoBytes caps a single uploaded image.
const maxPhotoBytes = 10 << 20

type ListingHandler struct {
	listings *usecase.ListingUsecase
	photos   *usecase.PhotoUsecase
	cache    *cache.ListingCache
	logger   *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, photos *usecase.PhotoUsecase, listingCache *cache.ListingCache, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		photos:   photos,
		cache:    listingCache,
		logger:   log,
	}
}

type listingResponse struct {
	ID          string   `json:"id"`
	SellerID    string   `json:"seller_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Photos      []string `json:"photos"`
	Status      string   `json:"status"`
	LikeCount   int      `json:"like_count"`
	ShareCount  int64    `json:"share_count"`
	CreatedAt   string   `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Category:    l.Category,
		Location:    l.Location,
		Photos:      l.Photos,
		Status:      string(l.Status),
		LikeCount:   l.LikeCount(),
		ShareCount:  l.ShareCount,
		CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type createListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), userID, req.Title, req.Description, req.Category, req.Location, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), id, userID, req.Title, req.Description, req.Category, req.Location, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	if err := h.listings.DeleteListing(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetListing serves the listing detail. An identified viewer's history
// is updated by the usecase, so the cache only short-circuits anonymous reads.
func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewerID := middleware.UserID(r.Context())

	if viewerID == "" {
		if cached, err := h.cache.GetListing(r.Context(), id); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, toListingResponse(cached))
			return
		}
	}

	listing, err := h.listings.GetListing(r.Context(), id, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cache.SetListing(r.Context(), listing); err != nil {
		h.logger.Warn("HandleGetListing: failed to cache listing", zap.String("listing_id", id), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		SellerID: q.Get("seller_id"),
		Status:   domain.ListingStatus(q.Get("status")),
	}
	if v := q.Get("min_price"); v != "" {
		filter.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("max_price"); v != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.ParseInt(v, 10, 64)
	}

	listings, err := h.listings.SearchListings(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *ListingHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	liked, err := h.listings.ToggleLike(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *ListingHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	if err := h.listings.Share(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ListingHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.listings.UpdateListingStatus(r.Context(), id, userID, domain.ListingStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "missing 'photo' file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	url, err := h.photos.UploadPhoto(r.Context(), id, userID, header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidateCache(r, id)
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *ListingHandler) HandleGetPhotos(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	urls, err := h.photos.GetPhotoURLs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"photos": urls})
}

func (h *ListingHandler) invalidateCache(r *http.Request, id string) {
	if err := h.cache.DeleteListing(r.Context(), id); err != nil {
		h.logger.Warn("failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}
}
