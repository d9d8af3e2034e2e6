package usecase

import (
	"context"
	"testing"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews []*domain.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	review.ID = "review-1"
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) FindBySeller(_ context.Context, sellerID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.SellerID == sellerID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ExistsForReviewer(_ context.Context, reviewerID, listingID string) (bool, error) {
	for _, rv := range r.reviews {
		if rv.ReviewerID == reviewerID && rv.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func newReviewSetup(t *testing.T) (*ReviewUsecase, *fakeReviewRepo, *fakePublisher, *domain.Listing) {
	t.Helper()
	listings := newFakeListingRepo()
	reviews := &fakeReviewRepo{}
	pub := &fakePublisher{}
	luc := newListingUsecase(listings, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, luc, "seller-1", "Bike", "sports")
	return NewReviewUsecase(reviews, listings, pub, logger.New()), reviews, pub, listing
}

func TestCreateReview_PublishesEvent(t *testing.T) {
	uc, _, pub, listing := newReviewSetup(t)

	review, err := uc.CreateReview(context.Background(), listing.ID, "buyer-1", 5, "great seller")

	require.NoError(t, err)
	assert.Equal(t, "seller-1", review.SellerID)
	assert.Equal(t, []string{"review.created"}, pub.published)
}

func TestCreateReview_RejectsBadRating(t *testing.T) {
	uc, _, _, listing := newReviewSetup(t)

	for _, rating := range []int{0, -1, 6} {
		_, err := uc.CreateReview(context.Background(), listing.ID, "buyer-1", rating, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
}

func TestCreateReview_RejectsSelfReview(t *testing.T) {
	uc, _, _, listing := newReviewSetup(t)

	_, err := uc.CreateReview(context.Background(), listing.ID, "seller-1", 5, "so good")

	assert.ErrorIs(t, err, ErrSelfReview)
}

func TestCreateReview_RejectsDuplicate(t *testing.T) {
	uc, _, _, listing := newReviewSetup(t)

	_, err := uc.CreateReview(context.Background(), listing.ID, "buyer-1", 4, "")
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), listing.ID, "buyer-1", 5, "")
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestCreateReview_MissingListing(t *testing.T) {
	uc, _, _, _ := newReviewSetup(t)

	_, err := uc.CreateReview(context.Background(), "nope", "buyer-1", 5, "")

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestSellerRating_Average(t *testing.T) {
	uc, reviews, _, _ := newReviewSetup(t)
	reviews.reviews = []*domain.Review{
		{SellerID: "seller-1", ReviewerID: "a", Rating: 5},
		{SellerID: "seller-1", ReviewerID: "b", Rating: 4},
		{SellerID: "other", ReviewerID: "c", Rating: 1},
	}

	average, count, err := uc.SellerRating(context.Background(), "seller-1")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 4.5, average, 0.0001)
}

func TestSellerRating_NoReviews(t *testing.T) {
	uc, _, _, _ := newReviewSetup(t)

	average, count, err := uc.SellerRating(context.Background(), "seller-1")

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, average)
}
