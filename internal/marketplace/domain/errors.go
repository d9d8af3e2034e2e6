package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoomNotFound       = errors.New("chat room not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicateReview    = errors.New("review already exists for this listing")
	ErrInvalidListingData = errors.New("invalid listing data")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)
