package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cardclub/gacha-backend/internal/gacha"
	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl orchestrates one draw: quota check, weighted draw,
// persistence. Quota consumption happens strictly before the entry is
// persisted, so a crash between the two can at most waste a quota slot —
// never grant unmetered persisted draws.
type DrawServiceImpl struct {
	registry       *VersionRegistry
	quotaRepo      repositories.QuotaRepository
	collectionRepo repositories.CollectionRepository
	rng            gacha.RandomSource
	maxPerDay      int
	location       *time.Location
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	registry *VersionRegistry,
	quotaRepo repositories.QuotaRepository,
	collectionRepo repositories.CollectionRepository,
	rng gacha.RandomSource,
	maxPerDay int,
	location *time.Location,
) *DrawServiceImpl {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &DrawServiceImpl{
		registry:       registry,
		quotaRepo:      quotaRepo,
		collectionRepo: collectionRepo,
		rng:            rng,
		maxPerDay:      maxPerDay,
		location:       location,
	}
}

// PerformDraw runs one draw for the user against the given version
func (s *DrawServiceImpl) PerformDraw(ctx context.Context, userID, versionID string, opts DrawOptions) (*models.CollectionEntry, *models.QuotaDecision, error) {
	version, ok := s.registry.Get(versionID)
	if !ok {
		slog.Info("Draw requested for unknown version", "userId", userID, "versionId", versionID)
		return nil, nil, models.ErrUnknownVersion
	}

	dateKey := models.DateKey(time.Now(), s.location)

	decision := &models.QuotaDecision{Allowed: true, Remaining: 0}
	if opts.BypassQuota {
		slog.Warn("Quota bypass draw", "userId", userID, "versionId", versionID)
	} else {
		var err error
		decision, err = s.quotaRepo.TryConsume(ctx, userID, dateKey, s.maxPerDay)
		if err != nil {
			slog.Error("Quota store unavailable, draw not granted", "error", err, "userId", userID)
			return nil, nil, fmt.Errorf("%w: %v", models.ErrQuotaUnavailable, err)
		}
		if !decision.Allowed {
			slog.Info("Draw denied, daily quota exhausted", "userId", userID, "dateKey", dateKey, "maxPerDay", s.maxPerDay)
			return nil, decision, &models.QuotaExceededError{MaxPerDay: s.maxPerDay}
		}
		if opts.ReportedPlayCount != nil && *opts.ReportedPlayCount != s.maxPerDay-decision.Remaining-1 {
			// Client-side counters drift or get tampered with; the server
			// count is the only one that matters.
			slog.Info("Client play count disagrees with server",
				"userId", userID, "reported", *opts.ReportedPlayCount, "serverUsed", s.maxPerDay-decision.Remaining)
		}
	}

	result, err := gacha.Draw(version, s.rng)
	if err != nil {
		slog.Error("Draw engine failed", "error", err, "versionId", versionID)
		return nil, decision, fmt.Errorf("draw engine: %w", err)
	}

	entry := &models.CollectionEntry{
		UserID:    userID,
		VersionID: result.VersionID,
		Rarity:    result.Rarity,
		ItemKey:   result.ItemKey,
	}
	if err := s.collectionRepo.Create(ctx, entry); err != nil {
		// The consumed slot stays spent; accepted lossy behavior for a free
		// daily feature.
		slog.Error("Failed to persist collection entry after draw", "error", err, "userId", userID, "itemKey", result.ItemKey)
		return nil, decision, fmt.Errorf("persisting collection entry: %w", err)
	}

	slog.Info("Draw completed", "userId", userID, "versionId", versionID,
		"rarity", result.Rarity, "itemKey", result.ItemKey, "remaining", decision.Remaining)
	return entry, decision, nil
}

// QuotaStatus reports the user's draw usage for the current site-local day
func (s *DrawServiceImpl) QuotaStatus(ctx context.Context, userID string) (*QuotaStatus, error) {
	dateKey := models.DateKey(time.Now(), s.location)
	used, err := s.quotaRepo.Peek(ctx, userID, dateKey)
	if err != nil {
		slog.Error("Failed to read quota status", "error", err, "userId", userID)
		return nil, fmt.Errorf("%w: %v", models.ErrQuotaUnavailable, err)
	}
	remaining := s.maxPerDay - used
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{Used: used, Remaining: remaining, MaxPerDay: s.maxPerDay}, nil
}
