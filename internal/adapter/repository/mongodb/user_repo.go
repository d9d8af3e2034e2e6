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

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	// A unique index on email is expected:
	// db.users.createIndex({ "email": 1 }, { unique: true })
	return &UserRepository{
		collection: db.Collection("users"),
		logger:     log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		r.logger.Error("UserRepository.Create: InsertOne failed", zap.Error(err))
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": doc})
	if err != nil {
		r.logger.Error("UserRepository.Update: UpdateByID failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("UserRepository.FindByID: FindOne failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("UserRepository.FindByEmail: FindOne failed", zap.Error(err))
		return nil, err
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) PushViewed(ctx context.Context, userID, listingID string) error {
	return r.pushHistory(ctx, userID, listingID, "viewed_history")
}

func (r *UserRepository) PushShared(ctx context.Context, userID, listingID string) error {
	return r.pushHistory(ctx, userID, listingID, "shared_history")
}

// pushHistory moves listingID to the front of the named history sequence and
// truncates it to domain.HistoryLimit. The $pull first removes an existing
// occurrence so a re-view bubbles up instead of duplicating.
func (r *UserRepository) pushHistory(ctx context.Context, userID, listingID, field string) error {
	oid, err := objectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	if _, err := r.collection.UpdateByID(ctx, oid, bson.M{"$pull": bson.M{field: listingID}}); err != nil {
		r.logger.Error("UserRepository.pushHistory: $pull failed",
			zap.String("user_id", userID), zap.String("field", field), zap.Error(err))
		return err
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{field: bson.M{
			"$each":     bson.A{listingID},
			"$position": 0,
			"$slice":    domain.HistoryLimit,
		}},
	})
	if err != nil {
		r.logger.Error("UserRepository.pushHistory: $push failed",
			zap.String("user_id", userID), zap.String("field", field), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Engagement returns the user's viewed and shared history, most recent first,
// projected down to just the two sequences.
func (r *UserRepository) Engagement(ctx context.Context, userID string) ([]string, []string, error) {
	oid, err := objectIDFromHex(userID)
	if err != nil {
		return nil, nil, domain.ErrUserNotFound
	}

	findOptions := options.FindOne().SetProjection(bson.M{
		"viewed_history": 1,
		"shared_history": 1,
	})

	var doc struct {
		ViewedHistory []string `bson:"viewed_history"`
		SharedHistory []string `bson:"shared_history"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, domain.ErrUserNotFound
		}
		r.logger.Error("UserRepository.Engagement: FindOne failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, err
	}
	return doc.ViewedHistory, doc.SharedHistory, nil
}
