package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, error)

	// FindRecent returns listings whose title or category matches the
	// keyword (all listings when it is empty), newest first, capped at limit.
	FindRecent(ctx context.Context, keyword string, limit int64) ([]*Listing, error)
	// FindByIDs loads the given listings; ids missing from the store are
	// silently skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*Listing, error)
	// FindLikedBy returns listings the user has liked, projected to the
	// fields discovery needs (id, title, category), capped at limit.
	FindLikedBy(ctx context.Context, userID string, limit int64) ([]*Listing, error)

	// ToggleLike adds the user to likedBy when absent and removes it when
	// present. Reports whether the listing is liked after the call.
	ToggleLike(ctx context.Context, id, userID string) (bool, error)
	IncrementShare(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// PushViewed and PushShared move the listing id to the front of the
	// relevant history sequence and truncate it to HistoryLimit.
	PushViewed(ctx context.Context, userID, listingID string) error
	PushShared(ctx context.Context, userID, listingID string) error
	// Engagement returns the user's viewed and shared history sequences,
	// most recent first.
	Engagement(ctx context.Context, userID string) (viewed, shared []string, err error)
}

type ChatRepository interface {
	CreateRoom(ctx context.Context, room *ChatRoom) error
	FindRoom(ctx context.Context, listingID, buyerID string) (*ChatRoom, error)
	FindRoomByID(ctx context.Context, roomID string) (*ChatRoom, error)
	RoomsForUser(ctx context.Context, userID string) ([]*ChatRoom, error)
	AddMessage(ctx context.Context, msg *Message) error
	MessagesForRoom(ctx context.Context, roomID string, limit int64) ([]*Message, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindBySeller(ctx context.Context, sellerID string) ([]*Review, error)
	ExistsForReviewer(ctx context.Context, reviewerID, listingID string) (bool, error)
}

type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
