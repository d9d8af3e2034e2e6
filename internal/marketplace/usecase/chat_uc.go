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
	ErrRoomNotFound  = errors.New("chat room not found")
	ErrNotAMember    = errors.New("user is not a member of this chat room")
	ErrEmptyMessage  = errors.New("message text cannot be empty")
	ErrChatWithSelf  = errors.New("cannot open a chat about your own listing")
	defaultMsgsLimit = int64(100)
)

type ChatUsecase struct {
	rooms     domain.ChatRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	logger    *logger.Logger
}

func NewChatUsecase(rooms domain.ChatRepository, listings domain.ListingRepository, publisher domain.EventPublisher, log *logger.Logger) *ChatUsecase {
	return &ChatUsecase{
		rooms:     rooms,
		listings:  listings,
		publisher: publisher,
		logger:    log,
	}
}

// OpenRoom returns the room between the buyer and the listing's seller,
// creating it on first contact.
func (uc *ChatUsecase) OpenRoom(ctx context.Context, listingID, buyerID string) (*domain.ChatRoom, error) {
	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, ErrChatWithSelf
	}

	room, err := uc.rooms.FindRoom(ctx, listingID, buyerID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return nil, err
	}

	room = &domain.ChatRoom{
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
	}
	if err := uc.rooms.CreateRoom(ctx, room); err != nil {
		uc.logger.Error("ChatUsecase.OpenRoom: failed to create room",
			zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func (uc *ChatUsecase) SendMessage(ctx context.Context, roomID, senderID, text string) (*domain.Message, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	room, err := uc.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if senderID != room.BuyerID && senderID != room.SellerID {
		return nil, ErrNotAMember
	}

	msg := &domain.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Text:     text,
	}
	if err := uc.rooms.AddMessage(ctx, msg); err != nil {
		uc.logger.Error("ChatUsecase.SendMessage: failed to add message",
			zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, nats.SubjectChatMessage, msg); err != nil {
		uc.logger.Warn("ChatUsecase.SendMessage: failed to publish event",
			zap.String("room_id", roomID), zap.Error(err))
	}
	return msg, nil
}

func (uc *ChatUsecase) Messages(ctx context.Context, roomID, userID string) ([]*domain.Message, error) {
	room, err := uc.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if userID != room.BuyerID && userID != room.SellerID {
		return nil, ErrNotAMember
	}
	return uc.rooms.MessagesForRoom(ctx, roomID, defaultMsgsLimit)
}

func (uc *ChatUsecase) MyRooms(ctx context.Context, userID string) ([]*domain.ChatRoom, error) {
	return uc.rooms.RoomsForUser(ctx, userID)
}
