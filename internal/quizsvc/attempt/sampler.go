package attempt

import (
	"math/rand"
	"sync"
	"time"
)

// Sampler draws question ids uniformly at random without replacement.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler uses src as its randomness, or a time seeded source when src is nil.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rng: rand.New(src)}
}

// Sample returns min(n, len(catalog)) distinct ids from catalog in random order.
// The catalog is left untouched. n <= 0 or an empty catalog yields an empty slice.
func (s *Sampler) Sample(catalog []uint, n int) []uint {
	if n <= 0 || len(catalog) == 0 {
		return []uint{}
	}
	if n > len(catalog) {
		n = len(catalog)
	}

	pool := make([]uint, len(catalog))
	copy(pool, catalog)

	s.mu.Lock()
	defer s.mu.Unlock()

	// partial Fisher-Yates: only the first n positions are settled
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:n:n]
}
