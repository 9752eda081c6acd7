package games

import (
	"math/rand"
	"time"
)

// Rand is the randomness source the engine draws from. Tests supply a
// deterministic implementation to reproduce any outcome exactly.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// NewRand returns a time-seeded randomness source for production use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
