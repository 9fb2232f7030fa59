package quantum

import (
	"encoding/binary"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
)

// Source is the randomness consumed by the sampler and by error injection.
// A process should hold exactly one Source and pass it to every component.
type Source interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
}

// LockedSource is a seeded math/rand generator safe for concurrent use
type LockedSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewSource creates a generator seeded once with seed
func NewSource(seed int64) *LockedSource {
	return &LockedSource{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with
func (s *LockedSource) Seed() int64 {
	return s.seed
}

// Float64 returns a uniform value in [0, 1)
func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a uniform value in [0, n)
func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// DeriveSeed maps an arbitrary label to a seed using the first 8 bytes of its SHA3-256 digest
func DeriveSeed(label string) int64 {
	digest := sha3.Sum256([]byte(label))
	return int64(binary.BigEndian.Uint64(digest[:8]))
}

// ParseSeed interprets a configured seed: empty means clock-seeded,
// an integer is used as is, anything else goes through DeriveSeed.
func ParseSeed(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UnixNano()
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return DeriveSeed(value)
}
