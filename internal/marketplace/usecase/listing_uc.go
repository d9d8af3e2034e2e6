package usecase

import (
	"context"
	"errors"

	"github.com/bazarly/backend/internal/adapter/messaging/nats"
	"github.com/bazarly/backend/internal/mailer"
	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.uber.org/zap"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStatus   = errors.New("unknown listing status")
)

type ListingUsecase struct {
	repo      domain.ListingRepository
	users     domain.UserRepository
	publisher domain.EventPublisher
	mailer    mailer.Mailer
	logger    *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	users domain.UserRepository,
	publisher domain.EventPublisher,
	m mailer.Mailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		users:     users,
		publisher: publisher,
		mailer:    m,
		logger:    log,
	}
}

func (uc *ListingUsecase) CreateListing(ctx context.Context, sellerID, title, description, category, location string, price float64) (*domain.Listing, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if title == "" {
		return nil, domain.ErrInvalidListingData
	}

	listing := &domain.Listing{
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Location:    location,
		Status:      domain.StatusSelling,
		Photos:      []string{},
		LikedBy:     []string{},
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.CreateListing: failed to create listing",
			zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, nats.SubjectListingCreated, listing); err != nil {
		uc.logger.Warn("ListingUsecase.CreateListing: failed to publish event",
			zap.String("listing_id", listing.ID), zap.Error(err))
	}
	return listing, nil
}

func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, userID, title, description, category, location string, price float64) (*domain.Listing, error) {
	listing, err := uc.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		listing.Title = title
	}
	if description != "" {
		listing.Description = description
	}
	if category != "" {
		listing.Category = category
	}
	if location != "" {
		listing.Location = location
	}
	if price > 0 {
		listing.Price = price
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.UpdateListing: failed to update listing",
			zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, userID string) error {
	if _, err := uc.findOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: failed to delete listing",
			zap.String("listing_id", id), zap.Error(err))
		return err
	}
	return nil
}

// GetListing fetches a listing and, for an identified viewer who is not the
// seller, records the view at the front of the viewer's history.
func (uc *ListingUsecase) GetListing(ctx context.Context, id, viewerID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	if viewerID != "" && viewerID != listing.SellerID {
		if err := uc.users.PushViewed(ctx, viewerID, listing.ID); err != nil {
			// A failed history write must not break the detail view.
			uc.logger.Warn("ListingUsecase.GetListing: failed to record view",
				zap.String("listing_id", id), zap.String("viewer_id", viewerID), zap.Error(err))
		}
	}
	return listing, nil
}

func (uc *ListingUsecase) SearchListings(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("ListingUsecase.SearchListings: failed to search listings", zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// ToggleLike flips the caller's like on a listing and reports the new state.
func (uc *ListingUsecase) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	liked, err := uc.repo.ToggleLike(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return false, ErrListingNotFound
		}
		uc.logger.Error("ListingUsecase.ToggleLike: failed",
			zap.String("listing_id", id), zap.String("user_id", userID), zap.Error(err))
		return false, err
	}
	return liked, nil
}

// Share bumps the listing's share counter and records the share at the front
// of the sharer's history.
func (uc *ListingUsecase) Share(ctx context.Context, id, userID string) error {
	if err := uc.repo.IncrementShare(ctx, id); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if userID != "" {
		if err := uc.users.PushShared(ctx, userID, id); err != nil {
			uc.logger.Warn("ListingUsecase.Share: failed to record share",
				zap.String("listing_id", id), zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

func (uc *ListingUsecase) UpdateListingStatus(ctx context.Context, id, userID string, status domain.ListingStatus) (*domain.Listing, error) {
	switch status {
	case domain.StatusSelling, domain.StatusReserved, domain.StatusSold:
	default:
		return nil, ErrInvalidStatus
	}

	listing, err := uc.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	listing.Status = status
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.UpdateListingStatus: failed to update listing",
			zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	if status == domain.StatusSold {
		uc.notifySold(ctx, listing)
	}
	return listing, nil
}

func (uc *ListingUsecase) notifySold(ctx context.Context, listing *domain.Listing) {
	if err := uc.publisher.Publish(ctx, nats.SubjectListingSold, listing); err != nil {
		uc.logger.Warn("ListingUsecase.notifySold: failed to publish event",
			zap.String("listing_id", listing.ID), zap.Error(err))
	}
	seller, err := uc.users.FindByID(ctx, listing.SellerID)
	if err != nil {
		uc.logger.Warn("ListingUsecase.notifySold: seller lookup failed",
			zap.String("seller_id", listing.SellerID), zap.Error(err))
		return
	}
	if err := uc.mailer.SendListingSoldEmail(seller.Email, listing.Title); err != nil {
		uc.logger.Warn("ListingUsecase.notifySold: failed to send email",
			zap.String("seller_id", listing.SellerID), zap.Error(err))
	}
}

func (uc *ListingUsecase) findOwned(ctx context.Context, id, userID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID != userID {
		uc.logger.Warn("ListingUsecase: forbidden action on listing",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.SellerID),
			zap.String("user_id", userID))
		return nil, ErrForbidden
	}
	return listing, nil
}
