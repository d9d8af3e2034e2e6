package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingRepo struct {
	listings map[string]*domain.Listing
	nextID   int
	failWith error
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*domain.Listing)}
}

func (r *fakeListingRepo) Create(_ context.Context, listing *domain.Listing) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	listing.ID = fmt.Sprintf("listing-%d", r.nextID)
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, listing *domain.Listing) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.listings[listing.ID]; !ok {
		return domain.ErrListingNotFound
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepo) FindByFilter(_ context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []*domain.Listing
	for _, l := range r.listings {
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeListingRepo) FindRecent(_ context.Context, _ string, _ int64) ([]*domain.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) FindByIDs(_ context.Context, _ []string) ([]*domain.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) FindLikedBy(_ context.Context, _ string, _ int64) ([]*domain.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) ToggleLike(_ context.Context, id, userID string) (bool, error) {
	listing, ok := r.listings[id]
	if !ok {
		return false, domain.ErrListingNotFound
	}
	for i, liker := range listing.LikedBy {
		if liker == userID {
			listing.LikedBy = append(listing.LikedBy[:i], listing.LikedBy[i+1:]...)
			return false, nil
		}
	}
	listing.LikedBy = append(listing.LikedBy, userID)
	return true, nil
}

func (r *fakeListingRepo) IncrementShare(_ context.Context, id string) error {
	listing, ok := r.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	listing.ShareCount++
	return nil
}

type fakeUserRepo struct {
	users   map[string]*domain.User
	viewed  map[string][]string
	shared  map[string][]string
	pushErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*domain.User),
		viewed: make(map[string][]string),
		shared: make(map[string][]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) PushViewed(_ context.Context, userID, listingID string) error {
	if r.pushErr != nil {
		return r.pushErr
	}
	r.viewed[userID] = append([]string{listingID}, r.viewed[userID]...)
	return nil
}

func (r *fakeUserRepo) PushShared(_ context.Context, userID, listingID string) error {
	if r.pushErr != nil {
		return r.pushErr
	}
	r.shared[userID] = append([]string{listingID}, r.shared[userID]...)
	return nil
}

func (r *fakeUserRepo) Engagement(_ context.Context, userID string) ([]string, []string, error) {
	return r.viewed[userID], r.shared[userID], nil
}

type fakePublisher struct {
	published []string
	failWith  error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, subject)
	return nil
}

type fakeMailer struct {
	sentTo     []string
	sentTitles []string
}

func (m *fakeMailer) SendListingSoldEmail(toEmail, listingTitle string) error {
	m.sentTo = append(m.sentTo, toEmail)
	m.sentTitles = append(m.sentTitles, listingTitle)
	return nil
}

func newListingUsecase(repo *fakeListingRepo, users *fakeUserRepo, pub *fakePublisher, m *fakeMailer) *ListingUsecase {
	return NewListingUsecase(repo, users, pub, m, logger.New())
}

func seedListing(t *testing.T, uc *ListingUsecase, sellerID, title, category string) *domain.Listing {
	t.Helper()
	listing, err := uc.CreateListing(context.Background(), sellerID, title, "", category, "Almaty", 100)
	require.NoError(t, err)
	return listing
}

func TestCreateListing_PublishesEvent(t *testing.T) {
	repo := newFakeListingRepo()
	pub := &fakePublisher{}
	uc := newListingUsecase(repo, newFakeUserRepo(), pub, &fakeMailer{})

	listing, err := uc.CreateListing(context.Background(), "seller-1", "Mountain Bike", "Great bike", "sports", "Almaty", 350)

	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, domain.StatusSelling, listing.Status)
	assert.Equal(t, []string{"listing.created"}, pub.published)
}

func TestCreateListing_RejectsNegativePrice(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})

	_, err := uc.CreateListing(context.Background(), "seller-1", "Bike", "", "sports", "", -1)

	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCreateListing_SucceedsWhenPublishFails(t *testing.T) {
	pub := &fakePublisher{failWith: errors.New("nats down")}
	uc := newListingUsecase(newFakeListingRepo(), newFakeUserRepo(), pub, &fakeMailer{})

	listing, err := uc.CreateListing(context.Background(), "seller-1", "Bike", "", "sports", "", 10)

	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
}

func TestUpdateListing_OnlyOwner(t *testing.T) {
	repo := newFakeListingRepo()
	uc := newListingUsecase(repo, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.UpdateListing(context.Background(), listing.ID, "intruder", "Stolen", "", "", "", 0)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := uc.UpdateListing(context.Background(), listing.ID, "seller-1", "City Bike", "", "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "City Bike", updated.Title)
	assert.Equal(t, float64(100), updated.Price)
}

func TestDeleteListing_OnlyOwner(t *testing.T) {
	repo := newFakeListingRepo()
	uc := newListingUsecase(repo, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	err := uc.DeleteListing(context.Background(), listing.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	err = uc.DeleteListing(context.Background(), listing.ID, "seller-1")
	require.NoError(t, err)

	_, err = uc.GetListing(context.Background(), listing.ID, "")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestGetListing_RecordsViewForOtherUsers(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.GetListing(context.Background(), listing.ID, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, []string{listing.ID}, users.viewed["buyer-1"])
}

func TestGetListing_SellerViewNotRecorded(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.GetListing(context.Background(), listing.ID, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, users.viewed["seller-1"])
}

func TestGetListing_AnonymousViewNotRecorded(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.GetListing(context.Background(), listing.ID, "")
	require.NoError(t, err)
	assert.Empty(t, users.viewed)
}

func TestGetListing_HistoryFailureDoesNotBreakView(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	users.pushErr = errors.New("mongo down")
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	got, err := uc.GetListing(context.Background(), listing.ID, "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, listing.ID, got.ID)
}

func TestToggleLike_Flips(t *testing.T) {
	repo := newFakeListingRepo()
	uc := newListingUsecase(repo, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	liked, err := uc.ToggleLike(context.Background(), listing.ID, "buyer-1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = uc.ToggleLike(context.Background(), listing.ID, "buyer-1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLike_MissingListing(t *testing.T) {
	uc := newListingUsecase(newFakeListingRepo(), newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})

	_, err := uc.ToggleLike(context.Background(), "nope", "buyer-1")

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestShare_RecordsHistoryAndCounter(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	require.NoError(t, uc.Share(context.Background(), listing.ID, "buyer-1"))

	assert.Equal(t, int64(1), repo.listings[listing.ID].ShareCount)
	assert.Equal(t, []string{listing.ID}, users.shared["buyer-1"])
}

func TestShare_AnonymousOnlyBumpsCounter(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	uc := newListingUsecase(repo, users, &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	require.NoError(t, uc.Share(context.Background(), listing.ID, ""))

	assert.Equal(t, int64(1), repo.listings[listing.ID].ShareCount)
	assert.Empty(t, users.shared)
}

func TestUpdateListingStatus_SoldNotifiesSeller(t *testing.T) {
	repo := newFakeListingRepo()
	users := newFakeUserRepo()
	users.users["seller-1"] = &domain.User{ID: "seller-1", Email: "seller@example.com", IsActive: true}
	pub := &fakePublisher{}
	m := &fakeMailer{}
	uc := newListingUsecase(repo, users, pub, m)
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	updated, err := uc.UpdateListingStatus(context.Background(), listing.ID, "seller-1", domain.StatusSold)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, updated.Status)
	assert.Contains(t, pub.published, "listing.sold")
	assert.Equal(t, []string{"seller@example.com"}, m.sentTo)
	assert.Equal(t, []string{"Bike"}, m.sentTitles)
}

func TestUpdateListingStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newFakeListingRepo()
	uc := newListingUsecase(repo, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.UpdateListingStatus(context.Background(), listing.ID, "seller-1", "vanished")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateListingStatus_OnlyOwner(t *testing.T) {
	repo := newFakeListingRepo()
	uc := newListingUsecase(repo, newFakeUserRepo(), &fakePublisher{}, &fakeMailer{})
	listing := seedListing(t, uc, "seller-1", "Bike", "sports")

	_, err := uc.UpdateListingStatus(context.Background(), listing.ID, "intruder", domain.StatusReserved)

	assert.ErrorIs(t, err, ErrForbidden)
}
