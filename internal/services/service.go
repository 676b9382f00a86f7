package services

import (
	"context"

	"github.com/cardclub/gacha-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawService defines the interface for gacha draw operations
type DrawService interface {
	// PerformDraw runs one quota-checked draw for the user and persists the
	// resulting collection entry
	PerformDraw(ctx context.Context, userID, versionID string, opts DrawOptions) (*models.CollectionEntry, *models.QuotaDecision, error)

	// QuotaStatus reports today's used/remaining draws for display
	QuotaStatus(ctx context.Context, userID string) (*QuotaStatus, error)
}

// DrawOptions carries caller capabilities for a draw. BypassQuota is only
// set by the admin request path; it is never bound from user input.
type DrawOptions struct {
	BypassQuota bool
	// ReportedPlayCount is the play count the client believes it has. Used
	// for a diagnostic log line only, never for authorization.
	ReportedPlayCount *int
}

// QuotaStatus is the display-oriented view of a user's daily quota
type QuotaStatus struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
	MaxPerDay int `json:"maxPerDay"`
}

// CollectionService defines the interface for reading a user's card collection
type CollectionService interface {
	ListByUser(ctx context.Context, userID string) ([]*models.CollectionEntry, error)
	GetEntry(ctx context.Context, userID string, entryID primitive.ObjectID) (*models.CollectionEntry, error)
}

// AuthService defines the interface for admin session issuance
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}
