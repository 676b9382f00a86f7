package repositories

import (
	"context"

	"github.com/cardclub/gacha-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionRepository defines the interface for collection entry data operations
type CollectionRepository interface {
	Create(ctx context.Context, entry *models.CollectionEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionEntry, error)
	// FindByUserID returns the user's non-deleted entries, newest first
	FindByUserID(ctx context.Context, userID string) ([]*models.CollectionEntry, error)
	// SoftDelete flags an entry as deleted; entries are never removed
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, userID string) (int64, error)
}

// QuotaRepository defines the interface for daily draw quota operations.
// TryConsume must behave as a single linearizable check-and-increment for a
// given (userID, dateKey): it increments only while the stored count is
// below maxPerDay, otherwise it denies and leaves the count unchanged.
type QuotaRepository interface {
	TryConsume(ctx context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaDecision, error)
	// Peek reports the current count without consuming. Display hint only,
	// never an authorization input.
	Peek(ctx context.Context, userID, dateKey string) (int, error)
}
