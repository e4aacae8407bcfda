package effect

import (
	"math/rand"
	"time"
)

// NewRand returns a Rand seeded from the wall clock.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Seeded returns a deterministic Rand.
func Seeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
