package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure QuotaRepository implements the interface
var _ repositories.QuotaRepository = (*QuotaRepository)(nil)

// QuotaRepository handles MongoDB operations for daily draw quotas.
// Check-and-increment is a single conditional FindOneAndUpdate so that two
// simultaneous draws at the cap boundary can never both be admitted.
type QuotaRepository struct {
	collection *mongo.Collection

	// consumeOnce issues a single conditional increment. Indirected so
	// tests can script duplicate-key errors, which only the server raises.
	consumeOnce func(ctx context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaRecord, error)
}

// NewQuotaRepository creates a new QuotaRepository
func NewQuotaRepository(db *mongo.Database) *QuotaRepository {
	r := &QuotaRepository{
		collection: db.Collection("draw_quotas"),
	}
	r.consumeOnce = r.consumeOnceMongo
	return r
}

// EnsureIndexes creates the unique (userId, dateKey) index TryConsume
// depends on. Must run before serving traffic.
func (r *QuotaRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dateKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// TryConsume atomically increments the user's count for dateKey while it is
// below maxPerDay. The update matches only documents under the cap and
// upserts the first draw of the day.
//
// A duplicate-key error is ambiguous: either the existing document is at the
// cap (the filter matched nothing, the upsert collided), or two first draws
// of a fresh (userId, dateKey) raced the insert and the loser collided while
// slots remain. One retry resolves it: the document now exists, so the $lt
// filter decides, and a second collision can only mean the cap is reached.
func (r *QuotaRepository) TryConsume(ctx context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaDecision, error) {
	record, err := r.consumeOnce(ctx, userID, dateKey, maxPerDay)
	if mongo.IsDuplicateKeyError(err) {
		record, err = r.consumeOnce(ctx, userID, dateKey, maxPerDay)
		if mongo.IsDuplicateKeyError(err) {
			return &models.QuotaDecision{Allowed: false, Remaining: 0}, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("quota conditional increment: %w", err)
	}

	remaining := maxPerDay - record.Count
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaDecision{Allowed: true, Remaining: remaining}, nil
}

func (r *QuotaRepository) consumeOnceMongo(ctx context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaRecord, error) {
	filter := bson.M{
		"userId":  userID,
		"dateKey": dateKey,
		"count":   bson.M{"$lt": maxPerDay},
	}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.QuotaRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Peek returns the current count for (userID, dateKey), zero when no draw
// has happened yet
func (r *QuotaRepository) Peek(ctx context.Context, userID, dateKey string) (int, error) {
	var record models.QuotaRecord
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "dateKey": dateKey}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Count, nil
}
