package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/marketplace/usecase"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrListingNotFound),
		errors.Is(err, usecase.ErrRoomNotFound),
		errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrNotAMember),
		errors.Is(err, usecase.ErrSelfReview),
		errors.Is(err, usecase.ErrChatWithSelf):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidListingData):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrDuplicateReview),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrDuplicateReview):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
