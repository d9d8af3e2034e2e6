package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ChatRepository struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
	logger   *logger.Logger
}

func NewChatRepository(db *mongo.Database, log *logger.Logger) *ChatRepository {
	return &ChatRepository{
		rooms:    db.Collection("chat_rooms"),
		messages: db.Collection("chat_messages"),
		logger:   log,
	}
}

func (r *ChatRepository) CreateRoom(ctx context.Context, room *domain.ChatRoom) error {
	room.CreatedAt = time.Now().UTC()
	doc := &chatRoomDocument{
		ListingID: room.ListingID,
		BuyerID:   room.BuyerID,
		SellerID:  room.SellerID,
		CreatedAt: room.CreatedAt,
	}
	res, err := r.rooms.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ChatRepository.CreateRoom: InsertOne failed", zap.Error(err))
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *ChatRepository) FindRoom(ctx context.Context, listingID, buyerID string) (*domain.ChatRoom, error) {
	var doc chatRoomDocument
	err := r.rooms.FindOne(ctx, bson.M{"listing_id": listingID, "buyer_id": buyerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		r.logger.Error("ChatRepository.FindRoom: FindOne failed", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	return toDomainRoom(&doc), nil
}

func (r *ChatRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	oid, err := objectIDFromHex(roomID)
	if err != nil {
		return nil, domain.ErrRoomNotFound
	}
	var doc chatRoomDocument
	err = r.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		r.logger.Error("ChatRepository.FindRoomByID: FindOne failed", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return toDomainRoom(&doc), nil
}

func (r *ChatRepository) RoomsForUser(ctx context.Context, userID string) ([]*domain.ChatRoom, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"buyer_id": userID},
		bson.M{"seller_id": userID},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.rooms.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("ChatRepository.RoomsForUser: Find failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*chatRoomDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	rooms := make([]*domain.ChatRoom, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, toDomainRoom(doc))
	}
	return rooms, nil
}

func (r *ChatRepository) AddMessage(ctx context.Context, msg *domain.Message) error {
	msg.CreatedAt = time.Now().UTC()
	doc := &messageDocument{
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	res, err := r.messages.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ChatRepository.AddMessage: InsertOne failed", zap.String("room_id", msg.RoomID), zap.Error(err))
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid.Hex()
	}
	return nil
}

func (r *ChatRepository) MessagesForRoom(ctx context.Context, roomID string, limit int64) ([]*domain.Message, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.messages.Find(ctx, bson.M{"room_id": roomID}, findOptions)
	if err != nil {
		r.logger.Error("ChatRepository.MessagesForRoom: Find failed", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	messages := make([]*domain.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, toDomainMessage(doc))
	}
	return messages, nil
}
