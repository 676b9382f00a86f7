package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CollectionServiceImpl implements CollectionService
var _ CollectionService = (*CollectionServiceImpl)(nil)

// CollectionServiceImpl handles reads of a user's permanent card collection
type CollectionServiceImpl struct {
	collectionRepo repositories.CollectionRepository
}

// NewCollectionService creates a new CollectionServiceImpl
func NewCollectionService(collectionRepo repositories.CollectionRepository) *CollectionServiceImpl {
	return &CollectionServiceImpl{collectionRepo: collectionRepo}
}

// ListByUser returns the caller's entries, newest first
func (s *CollectionServiceImpl) ListByUser(ctx context.Context, userID string) ([]*models.CollectionEntry, error) {
	entries, err := s.collectionRepo.FindByUserID(ctx, userID)
	if err != nil {
		slog.Error("Failed to list collection", "error", err, "userId", userID)
		return nil, fmt.Errorf("listing collection: %w", err)
	}
	return entries, nil
}

// GetEntry fetches one entry, enforcing that the caller owns it
func (s *CollectionServiceImpl) GetEntry(ctx context.Context, userID string, entryID primitive.ObjectID) (*models.CollectionEntry, error) {
	entry, err := s.collectionRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		slog.Error("Failed to fetch collection entry", "error", err, "entryId", entryID)
		return nil, fmt.Errorf("fetching collection entry: %w", err)
	}
	if entry.UserID != userID {
		// Ownership failures look identical to missing entries
		return nil, models.ErrNotFound
	}
	return entry, nil
}
