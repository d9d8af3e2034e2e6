package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/bazarly/backend/internal/marketplace/domain"
	"github.com/bazarly/backend/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.LikedBy == nil {
		listing.LikedBy = []string{}
	}

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ListingRepository.Create: InsertOne failed", zap.Error(err))
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid.Hex()
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	listing.UpdatedAt = time.Now().UTC()
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": doc})
	if err != nil {
		r.logger.Error("ListingRepository.Update: UpdateByID failed", zap.String("listing_id", listing.ID), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("ListingRepository.Delete: DeleteOne failed", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("ListingRepository.FindByID: FindOne failed", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	query := bson.M{}
	if filter.Query != "" {
		query["$or"] = keywordClauses(filter.Query)
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice > 0 {
		query["price"] = bson.M{"$gte": filter.MinPrice}
	}
	if filter.MaxPrice > 0 {
		if q, ok := query["price"].(bson.M); ok {
			q["$lte"] = filter.MaxPrice
		} else {
			query["price"] = bson.M{"$lte": filter.MaxPrice}
		}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("ListingRepository.FindByFilter: Find failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

// FindRecent returns the newest listings whose title or category matches the
// keyword; with an empty keyword it returns the newest listings overall.
func (r *ListingRepository) FindRecent(ctx context.Context, keyword string, limit int64) ([]*domain.Listing, error) {
	query := bson.M{}
	if keyword != "" {
		query["$or"] = keywordClauses(keyword)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("ListingRepository.FindRecent: Find failed", zap.String("keyword", keyword), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("ListingRepository.FindByIDs: Find failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

// FindLikedBy loads the listings a user liked, projected to the fields the
// discovery profile needs.
func (r *ListingRepository) FindLikedBy(ctx context.Context, userID string, limit int64) ([]*domain.Listing, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "category": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"liked_by": userID}, findOptions)
	if err != nil {
		r.logger.Error("ListingRepository.FindLikedBy: Find failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

// ToggleLike flips the user's membership in likedBy. $addToSet/$pull keep the
// at-most-once invariant even under concurrent toggles.
func (r *ListingRepository) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return false, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, domain.ErrListingNotFound
		}
		return false, err
	}

	liked := false
	for _, u := range doc.LikedBy {
		if u == userID {
			liked = true
			break
		}
	}

	update := bson.M{"$addToSet": bson.M{"liked_by": userID}}
	if liked {
		update = bson.M{"$pull": bson.M{"liked_by": userID}}
	}
	if _, err := r.collection.UpdateByID(ctx, oid, update); err != nil {
		r.logger.Error("ListingRepository.ToggleLike: UpdateByID failed",
			zap.String("listing_id", id), zap.String("user_id", userID), zap.Error(err))
		return false, err
	}
	return !liked, nil
}

func (r *ListingRepository) IncrementShare(ctx context.Context, id string) error {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"share_count": 1}})
	if err != nil {
		r.logger.Error("ListingRepository.IncrementShare: UpdateByID failed", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func keywordClauses(keyword string) bson.A {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	return bson.A{
		bson.M{"title": pattern},
		bson.M{"category": pattern},
	}
}
