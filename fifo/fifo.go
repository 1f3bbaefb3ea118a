// Package fifo is a bounded single-producer/single-consumer queue of fixed
// records. Neither side blocks or allocates after New.
package fifo

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrCapacity is returned by New for capacities that cannot hold a record.
var ErrCapacity = errors.New("fifo: capacity must be at least 2")

// ring is shared by exactly one Producer and one Consumer.
//
// Cursors only ever grow. The producer owns write, the consumer owns read;
// each side only loads the other's cursor. One slot is always left empty,
// so at most len(slots)-1 records are live.
type ring[T any] struct {
	// Separate cache lines so the two sides don't false-share.
	write atomic.Uint64
	_pad1 [56]byte
	read  atomic.Uint64
	_pad2 [56]byte

	slots []T
	size  uint64
}

// Producer is the push side of a queue. Only one goroutine may use it.
type Producer[T any] struct {
	r *ring[T]
}

// Consumer is the pop side of a queue. Only one goroutine may use it.
type Consumer[T any] struct {
	r *ring[T]
}

// New allocates a queue with capacity slots and returns its two ends.
// capacity-1 records fit before TryPush starts failing.
func New[T any](capacity int) (*Producer[T], *Consumer[T], error) {
	if capacity < 2 {
		return nil, nil, fmt.Errorf("%w (got %d)", ErrCapacity, capacity)
	}
	r := &ring[T]{
		slots: make([]T, capacity),
		size:  uint64(capacity),
	}
	return &Producer[T]{r: r}, &Consumer[T]{r: r}, nil
}

// TryPush copies v into the queue. It returns false without side effects
// when the queue is full.
func (p *Producer[T]) TryPush(v T) bool {
	r := p.r
	w := r.write.Load()
	if w-r.read.Load() >= r.size-1 {
		return false
	}
	r.slots[w%r.size] = v
	// Publish after the slot is fully written.
	r.write.Store(w + 1)
	return true
}

// NumReady returns how many records are waiting to be popped.
func (p *Producer[T]) NumReady() int {
	return p.r.numReady()
}

// Free returns how many more records can be pushed right now.
func (p *Producer[T]) Free() int {
	return int(p.r.size-1) - p.r.numReady()
}

// Cap returns the number of slots, including the reserved one.
func (p *Producer[T]) Cap() int {
	return int(p.r.size)
}

// TryPop copies the oldest record into v. It returns false and leaves v
// untouched when the queue is empty.
func (c *Consumer[T]) TryPop(v *T) bool {
	r := c.r
	rd := r.read.Load()
	if rd == r.write.Load() {
		return false
	}
	*v = r.slots[rd%r.size]
	// Release the slot only after the copy.
	r.read.Store(rd + 1)
	return true
}

// NumReady returns how many records are waiting to be popped.
func (c *Consumer[T]) NumReady() int {
	return c.r.numReady()
}

func (r *ring[T]) numReady() int {
	// Load read first: write can only grow, so the difference never
	// goes negative even when the other side moves in between.
	rd := r.read.Load()
	return int(r.write.Load() - rd)
}
