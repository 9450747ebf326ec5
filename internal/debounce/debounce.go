// Package debounce coalesces bursts of calls into a single delayed invocation.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays fn until wait has passed without another Call.
// Only the last Call of a burst runs, with that call's argument.
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Debouncer.
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Call cancels any pending invocation and schedules fn(arg) after the wait period.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fn(arg) })
}

// Stop cancels a pending invocation. It reports whether one was cancelled.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Keyed debounces per key, so bursts for different keys do not cancel each other.
// A key holds state only while an invocation is pending.
type Keyed[K comparable, T any] struct {
	wait time.Duration
	fn   func(K, T)

	mu      sync.Mutex
	seq     uint64
	pending map[K]keyedTimer
}

type keyedTimer struct {
	timer *time.Timer
	gen   uint64
}

// NewKeyed creates a Keyed debouncer.
func NewKeyed[K comparable, T any](wait time.Duration, fn func(K, T)) *Keyed[K, T] {
	return &Keyed[K, T]{
		wait:    wait,
		fn:      fn,
		pending: make(map[K]keyedTimer),
	}
}

// Call debounces arg under key.
func (k *Keyed[K, T]) Call(key K, arg T) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if p, ok := k.pending[key]; ok {
		p.timer.Stop()
	}
	k.seq++
	gen := k.seq
	k.pending[key] = keyedTimer{
		timer: time.AfterFunc(k.wait, func() { k.fire(key, gen, arg) }),
		gen:   gen,
	}
}

// fire runs fn unless a later Call or Stop superseded this timer, and frees the key.
func (k *Keyed[K, T]) fire(key K, gen uint64, arg T) {
	k.mu.Lock()
	p, ok := k.pending[key]
	if !ok || p.gen != gen {
		k.mu.Unlock()
		return
	}
	delete(k.pending, key)
	k.mu.Unlock()

	k.fn(key, arg)
}

// Pending returns the number of keys with a scheduled invocation.
func (k *Keyed[K, T]) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.pending)
}

// Stop cancels every pending invocation.
func (k *Keyed[K, T]) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for key, p := range k.pending {
		p.timer.Stop()
		delete(k.pending, key)
	}
}
