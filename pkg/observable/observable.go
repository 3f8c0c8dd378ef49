// Package observable holds a single value that subscribers are told about on every change.
package observable

import (
	"maps"
	"slices"
	"sync"
)

type delivery[T any] struct {
	val T
	fns []func(T)
}

// Value is safe for concurrent use. Subscribers run with no lock held and see
// values in Set order. A subscriber may call back into the Value; the nested
// update is delivered after the current one.
type Value[T any] struct {
	mu         sync.Mutex
	value      T
	nextID     int
	subs       map[int]func(T)
	pending    []delivery[T]
	delivering bool
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, subs: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores val and calls every current subscriber with it.
func (v *Value[T]) Set(val T) {
	v.Store(val)
	v.Flush()
}

// Store records val and queues its delivery without calling anyone. Get sees val
// at once; subscribers see it on the next Flush or Set.
func (v *Value[T]) Store(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = val
	v.pending = append(v.pending, delivery[T]{val: val, fns: v.snapshot()})
}

// Flush delivers queued values. When another call is already delivering, it
// returns at once and that call delivers them.
func (v *Value[T]) Flush() {
	v.mu.Lock()
	if v.delivering {
		v.mu.Unlock()
		return
	}
	v.delivering = true

	for len(v.pending) > 0 {
		next := v.pending[0]
		v.pending = v.pending[1:]
		v.mu.Unlock()

		for _, fn := range next.fns {
			fn(next.val)
		}

		v.mu.Lock()
	}
	v.delivering = false
	v.mu.Unlock()
}

// Subscribe calls fn with the current value and after each Set. The first call
// happens before Subscribe returns unless another goroutine is delivering.
// The returned func removes the subscription; calling it twice is a no-op.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.pending = append(v.pending, delivery[T]{val: v.value, fns: []func(T){fn}})
	v.mu.Unlock()

	v.Flush()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

func (v *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(v.subs))
	for _, id := range slices.Sorted(maps.Keys(v.subs)) {
		fns = append(fns, v.subs[id])
	}
	return fns
}
