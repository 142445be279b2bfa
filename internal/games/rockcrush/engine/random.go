package engine

import "math/rand"

// RandomSource yields uniform integers in [0, n).
// *math/rand.Rand satisfies it; tests substitute scripted sources.
type RandomSource interface {
	Intn(n int) int
}

// NewRandom returns a seeded math/rand source.
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomKind draws a palette kind in 1..palette.
func RandomKind(rng RandomSource, palette int) Kind {
	return Kind(rng.Intn(palette) + 1)
}
