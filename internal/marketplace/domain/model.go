package domain

import "time"

type ListingStatus string

const (
	StatusSelling  ListingStatus = "selling"
	StatusReserved ListingStatus = "reserved"
	StatusSold     ListingStatus = "sold"
)

// HistoryLimit caps the per-user viewed and shared history sequences.
// The newest entry is kept at the front; the oldest is evicted on overflow.
const HistoryLimit = 50

type Listing struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	Price       float64
	Category    string
	Location    string
	Photos      []string
	Status      ListingStatus
	LikedBy     []string // set semantics: each user id appears at most once
	ShareCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LikeCount returns the number of distinct users who liked the listing.
func (l *Listing) LikeCount() int {
	return len(l.LikedBy)
}

// IsLikedBy reports whether the given user already liked the listing.
func (l *Listing) IsLikedBy(userID string) bool {
	for _, id := range l.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	// ViewedHistory and SharedHistory hold listing ids, most recent first,
	// each capped at HistoryLimit.
	ViewedHistory []string
	SharedHistory []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ChatRoom struct {
	ID        string
	ListingID string
	BuyerID   string
	SellerID  string
	CreatedAt time.Time
}

type Message struct {
	ID        string
	RoomID    string
	SenderID  string
	Text      string
	CreatedAt time.Time
}

type Review struct {
	ID         string
	ListingID  string
	SellerID   string
	ReviewerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// Filter narrows listing queries.
type Filter struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Status   ListingStatus
	SellerID string
	Limit    int64
}
