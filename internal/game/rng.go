package game

import "math/rand/v2"

// Rand is the randomness the engine consumes: deck shuffles, random skill
// targets, dodge rolls and the random AI policy. Two battles built with equal
// decks and equally seeded Rands behave identically.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
