package quiz

import (
	"math/rand/v2"
	"sync"
)

// Random is the source of every shuffle and pick made while generating a
// quiz. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

// NewRandom returns a deterministic source for the given seed.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSafeRandom returns a Random that may be shared between goroutines.
// A zero seed draws one from the runtime.
func NewSafeRandom(seed uint64) Random {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRandom{r: NewRandom(seed)}
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRandom) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

func (l *lockedRandom) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func shuffle[T any](r Random, s []T) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func choose[T any](r Random, s []T) T {
	return s[r.IntN(len(s))]
}
