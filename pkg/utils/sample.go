package utils

import (
	"math/rand/v2"
)

// Reservoir keeps a uniform random sample of at most Size items from a stream of
// unknown length (Algorithm R). Every offered item ends up in the sample with
// probability Size/seen.
type Reservoir[T any] struct {
	size  int
	seen  int
	items []T
	rng   *rand.Rand
}

// NewReservoir returns a sampler of the given size. A nil rng uses the global source.
func NewReservoir[T any](size int, rng *rand.Rand) *Reservoir[T] {
	if size < 0 {
		size = 0
	}
	return &Reservoir[T]{size: size, items: make([]T, 0, size), rng: rng}
}

func (r *Reservoir[T]) Offer(item T) {
	r.seen++
	if len(r.items) < r.size {
		r.items = append(r.items, item)
		return
	}
	if r.size == 0 {
		return
	}
	if j := r.intN(r.seen); j < r.size {
		r.items[j] = item
	}
}

// Seen reports how many items were offered.
func (r *Reservoir[T]) Seen() int {
	return r.seen
}

// Items returns the sample in random order.
func (r *Reservoir[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	Shuffle(out, r.rng)
	return out
}

func (r *Reservoir[T]) intN(n int) int {
	if r.rng != nil {
		return r.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Shuffle is an unbiased Fisher-Yates shuffle.
func Shuffle[T any](items []T, rng *rand.Rand) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if rng != nil {
		rng.Shuffle(len(items), swap)
		return
	}
	rand.Shuffle(len(items), swap)
}
