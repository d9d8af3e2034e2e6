package usecase

import (
	"context"
	"errors"

	"github.com/bazarly/backend/internal/adapter/messaging/nats"
	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.uber.org/zap"
)

var (
	ErrDuplicateReview = errors.New("you have already reviewed this listing")
	ErrSelfReview      = errors.New("cannot review your own listing")
)

type ReviewUsecase struct {
	reviews   domain.ReviewRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	logger    *logger.Logger
}

func NewReviewUsecase(reviews domain.ReviewRepository, listings domain.ListingRepository, publisher domain.EventPublisher, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:   reviews,
		listings:  listings,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *ReviewUsecase) CreateReview(ctx context.Context, listingID, reviewerID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID == reviewerID {
		return nil, ErrSelfReview
	}

	exists, err := uc.reviews.ExistsForReviewer(ctx, reviewerID, listingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &domain.Review{
		ListingID:  listingID,
		SellerID:   listing.SellerID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		uc.logger.Error("ReviewUsecase.CreateReview: failed to create review",
			zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, nats.SubjectReviewCreated, review); err != nil {
		uc.logger.Warn("ReviewUsecase.CreateReview: failed to publish event",
			zap.String("review_id", review.ID), zap.Error(err))
	}
	return review, nil
}

func (uc *ReviewUsecase) ReviewsForSeller(ctx context.Context, sellerID string) ([]*domain.Review, error) {
	return uc.reviews.FindBySeller(ctx, sellerID)
}

// SellerRating returns the seller's average rating and review count.
func (uc *ReviewUsecase) SellerRating(ctx context.Context, sellerID string) (float64, int, error) {
	reviews, err := uc.reviews.FindBySeller(ctx, sellerID)
	if err != nil {
		return 0, 0, err
	}
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews), nil
}
