package gacha

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// RandomSource abstracts the randomness behind the draw engine so tests can
// supply a fixed sequence and assert exact outputs.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
}

// lockedRNG is the production source: a math/rand generator seeded from
// crypto/rand, guarded for concurrent handlers.
type lockedRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRNG) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// DefaultRNG returns a concurrency-safe source with an unpredictable seed
func DefaultRNG() RandomSource {
	var buf [8]byte
	seed := int64(0)
	if _, err := cryptorand.Read(buf[:]); err == nil {
		seed = int64(binary.BigEndian.Uint64(buf[:]))
	}
	return &lockedRNG{r: rand.New(rand.NewSource(seed))}
}

// NewSeededRNG returns a reproducible source for tests and simulations
func NewSeededRNG(seed int64) RandomSource {
	return &lockedRNG{r: rand.New(rand.NewSource(seed))}
}
