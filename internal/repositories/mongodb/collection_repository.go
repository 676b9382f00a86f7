package mongodb

import (
	"context"
	"time"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CollectionRepository implements the interface
var _ repositories.CollectionRepository = (*CollectionRepository)(nil)

// CollectionRepository handles MongoDB operations for CollectionEntry
type CollectionRepository struct {
	collection *mongo.Collection
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *mongo.Database) *CollectionRepository {
	return &CollectionRepository{
		collection: db.Collection("collection_entries"),
	}
}

// Create inserts a new collection entry
func (r *CollectionRepository) Create(ctx context.Context, entry *models.CollectionEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByID finds a collection entry by ID
func (r *CollectionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionEntry, error) {
	var entry models.CollectionEntry
	filter := bson.M{"_id": id, "isDeleted": false}
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &entry, nil
}

// FindByUserID retrieves a user's non-deleted entries, newest first
func (r *CollectionRepository) FindByUserID(ctx context.Context, userID string) ([]*models.CollectionEntry, error) {
	var entries []*models.CollectionEntry
	filter := bson.M{"userId": userID, "isDeleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.CollectionEntry{}
	}
	return entries, nil
}

// SoftDelete flags an entry as deleted without removing the record
func (r *CollectionRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"isDeleted": true}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count returns the number of non-deleted entries owned by userID
func (r *CollectionRepository) Count(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "isDeleted": false})
}
