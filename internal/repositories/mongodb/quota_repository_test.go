package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// scriptedRepo returns a QuotaRepository whose conditional increments play
// back the given results in order. The real increment runs server-side, so
// the branch handling is what gets exercised here.
func scriptedRepo(t *testing.T, script ...func() (*models.QuotaRecord, error)) (*QuotaRepository, *int) {
	t.Helper()
	calls := 0
	repo := &QuotaRepository{}
	repo.consumeOnce = func(ctx context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaRecord, error) {
		require.Less(t, calls, len(script), "more increments than scripted")
		result := script[calls]
		calls++
		return result()
	}
	return repo, &calls
}

func dupKeyErr() (*models.QuotaRecord, error) {
	return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func recordWith(count int) func() (*models.QuotaRecord, error) {
	return func() (*models.QuotaRecord, error) {
		return &models.QuotaRecord{Count: count}, nil
	}
}

func TestTryConsumeRetriesAfterInsertRace(t *testing.T) {
	// Two first draws of a fresh day race the upsert insert. The loser's
	// duplicate key must not read as a denial while slots remain.
	repo, calls := scriptedRepo(t, dupKeyErr, recordWith(2))

	decision, err := repo.TryConsume(context.Background(), "user-1", "2025-06-01", 3)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Remaining)
	assert.Equal(t, 2, *calls)
}

func TestTryConsumeSecondCollisionDenies(t *testing.T) {
	repo, calls := scriptedRepo(t, dupKeyErr, dupKeyErr)

	decision, err := repo.TryConsume(context.Background(), "user-1", "2025-06-01", 3)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, 2, *calls)
}

func TestTryConsumeNoRetryWithoutCollision(t *testing.T) {
	repo, calls := scriptedRepo(t, recordWith(3))

	decision, err := repo.TryConsume(context.Background(), "user-1", "2025-06-01", 3)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, 1, *calls)
}

func TestTryConsumePropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo, _ := scriptedRepo(t, func() (*models.QuotaRecord, error) {
		return nil, storeErr
	})

	decision, err := repo.TryConsume(context.Background(), "user-1", "2025-06-01", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, decision)
}

func TestTryConsumePropagatesErrorOnRetry(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo, calls := scriptedRepo(t, dupKeyErr, func() (*models.QuotaRecord, error) {
		return nil, storeErr
	})

	decision, err := repo.TryConsume(context.Background(), "user-1", "2025-06-01", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, decision)
	assert.Equal(t, 2, *calls)
}
