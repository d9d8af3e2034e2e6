package usecase

import (
	"context"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.uber.org/zap"
)

type PhotoUsecase struct {
	storage domain.Storage
	repo    domain.ListingRepository
	logger  *logger.Logger
}

func NewPhotoUsecase(storage domain.Storage, repo domain.ListingRepository, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{storage: storage, repo: repo, logger: log}
}

// UploadPhoto stores the image and appends its URL to the listing. Only the
// seller may attach photos.
func (uc *PhotoUsecase) UploadPhoto(ctx context.Context, listingID, userID, fileName string, data []byte) (string, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID != userID {
		return "", ErrForbidden
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("PhotoUsecase.UploadPhoto: upload failed",
			zap.String("listing_id", listingID), zap.Error(err))
		return "", err
	}

	listing.Photos = append(listing.Photos, url)
	if err := uc.repo.Update(ctx, listing); err != nil {
		return "", err
	}
	return url, nil
}

func (uc *PhotoUsecase) GetPhotoURLs(ctx context.Context, listingID string) ([]string, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return listing.Photos, nil
}
