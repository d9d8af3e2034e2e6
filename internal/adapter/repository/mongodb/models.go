package mongodb

import (
	"fmt"
	"time"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the persisted shape of a domain.Listing.
type listingDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	SellerID    string               `bson:"seller_id"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Category    string               `bson:"category"`
	Location    string               `bson:"location"`
	Photos      []string             `bson:"photos,omitempty"`
	Status      domain.ListingStatus `bson:"status"`
	LikedBy     []string             `bson:"liked_by,omitempty"`
	ShareCount  int64                `bson:"share_count"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type userDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	ViewedHistory []string           `bson:"viewed_history,omitempty"`
	SharedHistory []string           `bson:"shared_history,omitempty"`
	IsActive      bool               `bson:"is_active"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

type chatRoomDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	BuyerID   string             `bson:"buyer_id"`
	SellerID  string             `bson:"seller_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	RoomID    string             `bson:"room_id"`
	SenderID  string             `bson:"sender_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ListingID  string             `bson:"listing_id"`
	SellerID   string             `bson:"seller_id"`
	ReviewerID string             `bson:"reviewer_id"`
	Rating     int                `bson:"rating"`
	Comment    string             `bson:"comment"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	if id == "" {
		// Leave the id unset so MongoDB generates one on insert.
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}
	docID, err := objectIDFromHex(l.ID)
	if err != nil {
		return nil, err
	}
	return &listingDocument{
		ID:          docID,
		SellerID:    l.SellerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Category:    l.Category,
		Location:    l.Location,
		Photos:      l.Photos,
		Status:      l.Status,
		LikedBy:     l.LikedBy,
		ShareCount:  l.ShareCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		SellerID:    d.SellerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Location:    d.Location,
		Photos:      d.Photos,
		Status:      d.Status,
		LikedBy:     d.LikedBy,
		ShareCount:  d.ShareCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	if u == nil {
		return nil, nil
	}
	docID, err := objectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:            docID,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		ViewedHistory: u.ViewedHistory,
		SharedHistory: u.SharedHistory,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:            d.ID.Hex(),
		Username:      d.Username,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          d.Role,
		ViewedHistory: d.ViewedHistory,
		SharedHistory: d.SharedHistory,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainRoom(d *chatRoomDocument) *domain.ChatRoom {
	if d == nil {
		return nil
	}
	return &domain.ChatRoom{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainMessage(d *messageDocument) *domain.Message {
	if d == nil {
		return nil
	}
	return &domain.Message{
		ID:        d.ID.Hex(),
		RoomID:    d.RoomID,
		SenderID:  d.SenderID,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainReview(d *reviewDocument) *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:         d.ID.Hex(),
		ListingID:  d.ListingID,
		SellerID:   d.SellerID,
		ReviewerID: d.ReviewerID,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}
