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

type ReviewRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewReviewRepository(db *mongo.Database, log *logger.Logger) *ReviewRepository {
	// A unique index keeps one review per reviewer per listing:
	// db.reviews.createIndex({ "reviewer_id": 1, "listing_id": 1 }, { unique: true })
	return &ReviewRepository{
		collection: db.Collection("reviews"),
		logger:     log,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	review.CreatedAt = time.Now().UTC()
	doc := &reviewDocument{
		ListingID:  review.ListingID,
		SellerID:   review.SellerID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReview
		}
		r.logger.Error("ReviewRepository.Create: InsertOne failed", zap.Error(err))
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *ReviewRepository) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Review, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, findOptions)
	if err != nil {
		r.logger.Error("ReviewRepository.FindBySeller: Find failed", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	reviews := make([]*domain.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, toDomainReview(doc))
	}
	return reviews, nil
}

func (r *ReviewRepository) ExistsForReviewer(ctx context.Context, reviewerID, listingID string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{
		"reviewer_id": reviewerID,
		"listing_id":  listingID,
	}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
