// Package memory provides in-process repository implementations used by
// tests and by local development without a MongoDB instance.
package memory

import (
	"context"
	"sync"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/cardclub/gacha-backend/internal/repositories"
)

// Compile-time check to ensure QuotaRepository implements the interface
var _ repositories.QuotaRepository = (*QuotaRepository)(nil)

// QuotaRepository is a mutex-guarded map with the same check-and-increment
// semantics as the MongoDB implementation
type QuotaRepository struct {
	mu     sync.Mutex
	counts map[string]int // key: userID + "|" + dateKey
}

// NewQuotaRepository creates an empty in-memory quota store
func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{counts: make(map[string]int)}
}

// TryConsume increments the count only while it is below maxPerDay
func (r *QuotaRepository) TryConsume(_ context.Context, userID, dateKey string, maxPerDay int) (*models.QuotaDecision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userID + "|" + dateKey
	if r.counts[key] >= maxPerDay {
		return &models.QuotaDecision{Allowed: false, Remaining: 0}, nil
	}
	r.counts[key]++
	return &models.QuotaDecision{Allowed: true, Remaining: maxPerDay - r.counts[key]}, nil
}

// Peek returns the current count without consuming
func (r *QuotaRepository) Peek(_ context.Context, userID, dateKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[userID+"|"+dateKey], nil
}
