package app

import (
	"math/rand"
	"time"
)

// Randomizer is the randomness used for shuffling and message copy.
// *rand.Rand satisfies it; a Randomizer is never shared between goroutines.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandom returns a Randomizer seeded from the clock, or from seed when given.
func NewRandom(seed *int64) Randomizer {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func shuffled[T any](items []T, rnd Randomizer) []T {
	out := append([]T(nil), items...)
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
