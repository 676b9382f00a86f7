package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardclub/gacha-backend/internal/config"
	"github.com/cardclub/gacha-backend/internal/gacha"
	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// recorder tracks the order of side effects across the fakes
type recorder struct {
	events []string
}

type fakeQuotaRepo struct {
	rec      *recorder
	counts   map[string]int
	failWith error
}

func newFakeQuotaRepo(rec *recorder) *fakeQuotaRepo {
	return &fakeQuotaRepo{rec: rec, counts: map[string]int{}}
}

func (f *fakeQuotaRepo) TryConsume(_ context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaDecision, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.rec.events = append(f.rec.events, "consume")
	key := userID + "|" + dateKey
	if f.counts[key] >= maxPerDay {
		return &models.QuotaDecision{Allowed: false, Remaining: 0}, nil
	}
	f.counts[key]++
	return &models.QuotaDecision{Allowed: true, Remaining: maxPerDay - f.counts[key]}, nil
}

func (f *fakeQuotaRepo) Peek(_ context.Context, userID, dateKey string) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.counts[userID+"|"+dateKey], nil
}

type fakeCollectionRepo struct {
	rec      *recorder
	entries  []*models.CollectionEntry
	failWith error
}

func (f *fakeCollectionRepo) Create(_ context.Context, entry *models.CollectionEntry) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.rec.events = append(f.rec.events, "persist")
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeCollectionRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.CollectionEntry, error) {
	for _, e := range f.entries {
		if e.ID == id && !e.IsDeleted {
			return e, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeCollectionRepo) FindByUserID(_ context.Context, userID string) ([]*models.CollectionEntry, error) {
	var out []*models.CollectionEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.IsDeleted {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCollectionRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	for _, e := range f.entries {
		if e.ID == id {
			e.IsDeleted = true
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeCollectionRepo) Count(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, e := range f.entries {
		if e.UserID == userID && !e.IsDeleted {
			n++
		}
	}
	return n, nil
}

func testRegistry(t *testing.T) *VersionRegistry {
	t.Helper()
	registry, err := NewVersionRegistry(config.GachaConfig{
		MaxDrawsPerDay: 3,
		Versions: []config.VersionConfig{
			{
				ID:           "v1",
				DisplayTitle: "First Pack",
				Categories: []config.CategoryConfig{
					{Name: "COMMON", Weight: 225, ItemCount: 20, Prefix: "C"},
					{Name: "SECRET", Weight: 1, ItemCount: 1, Prefix: "X"},
				},
			},
		},
	})
	require.NoError(t, err)
	return registry
}

func newTestService(t *testing.T) (*DrawServiceImpl, *fakeQuotaRepo, *fakeCollectionRepo) {
	t.Helper()
	rec := &recorder{}
	quotaRepo := newFakeQuotaRepo(rec)
	collectionRepo := &fakeCollectionRepo{rec: rec}
	svc := NewDrawService(testRegistry(t), quotaRepo, collectionRepo, gacha.NewSeededRNG(1), 3, time.UTC)
	return svc, quotaRepo, collectionRepo
}

func TestPerformDrawPersistsEntry(t *testing.T) {
	svc, _, collectionRepo := newTestService(t)

	entry, decision, err := svc.PerformDraw(context.Background(), "user-1", "v1", DrawOptions{})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "v1", entry.VersionID)
	assert.NotEmpty(t, entry.ItemKey)
	assert.False(t, entry.ID.IsZero())
	assert.Equal(t, 2, decision.Remaining)
	assert.Len(t, collectionRepo.entries, 1)
}

func TestPerformDrawUnknownVersion(t *testing.T) {
	svc, quotaRepo, _ := newTestService(t)

	_, _, err := svc.PerformDraw(context.Background(), "user-1", "nope", DrawOptions{})
	assert.ErrorIs(t, err, models.ErrUnknownVersion)
	assert.Empty(t, quotaRepo.rec.events, "no quota slot may be spent on a bad version")
}

func TestPerformDrawQuotaExceededCarriesCap(t *testing.T) {
	svc, _, collectionRepo := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.PerformDraw(ctx, "user-1", "v1", DrawOptions{})
		require.NoError(t, err)
	}

	_, decision, err := svc.PerformDraw(ctx, "user-1", "v1", DrawOptions{})
	var quotaErr *models.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.MaxPerDay)
	assert.False(t, decision.Allowed)
	assert.Len(t, collectionRepo.entries, 3, "the denied draw must not persist an entry")
}

func TestPerformDrawFailsClosedWhenQuotaStoreDown(t *testing.T) {
	svc, quotaRepo, collectionRepo := newTestService(t)
	quotaRepo.failWith = errors.New("connection refused")

	_, _, err := svc.PerformDraw(context.Background(), "user-1", "v1", DrawOptions{})
	assert.ErrorIs(t, err, models.ErrQuotaUnavailable)
	assert.Empty(t, collectionRepo.entries, "draw must not be granted without confirmed quota")
}

func TestPerformDrawConsumesQuotaBeforePersisting(t *testing.T) {
	svc, quotaRepo, _ := newTestService(t)

	_, _, err := svc.PerformDraw(context.Background(), "user-1", "v1", DrawOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"consume", "persist"}, quotaRepo.rec.events)
}

func TestPerformDrawPersistFailureStillSpendsSlot(t *testing.T) {
	svc, quotaRepo, collectionRepo := newTestService(t)
	collectionRepo.failWith = errors.New("write failed")

	_, _, err := svc.PerformDraw(context.Background(), "user-1", "v1", DrawOptions{})
	require.Error(t, err)

	// Lossy in the house's favor: the slot stays consumed
	count, err := quotaRepo.Peek(context.Background(), "user-1", models.DateKey(time.Now(), time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPerformDrawBypassSkipsQuota(t *testing.T) {
	svc, quotaRepo, collectionRepo := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.PerformDraw(ctx, "user-1", "v1", DrawOptions{BypassQuota: true})
		require.NoError(t, err)
	}

	assert.Len(t, collectionRepo.entries, 5)
	count, err := quotaRepo.Peek(ctx, "user-1", models.DateKey(time.Now(), time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, count, "bypass draws never touch the quota store")
}

func TestQuotaStatusReflectsUsage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	status, err := svc.QuotaStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &QuotaStatus{Used: 0, Remaining: 3, MaxPerDay: 3}, status)

	_, _, err = svc.PerformDraw(ctx, "user-1", "v1", DrawOptions{})
	require.NoError(t, err)

	status, err = svc.QuotaStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &QuotaStatus{Used: 1, Remaining: 2, MaxPerDay: 3}, status)
}
