// Package harness provides the tooling used to exercise a queue under
// controlled conditions: an allocator that keeps count of every block
// and can be told to fail, and a guard that bounds how long a single
// operation may run.
package harness

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrDoubleFree = errors.New("block freed more than once")
	ErrLeak       = errors.New("blocks still allocated")
)

// Allocator accounts for the blocks handed out to a queue. It
// implements strq.Allocator. The zero value never fails.
type Allocator struct {
	// FailProbability is the percentage of allocations, from 0 to 100,
	// that are refused.
	FailProbability int

	// FailAfter, if positive, makes the allocator refuse every
	// allocation once that many have succeeded.
	FailAfter int

	rand *rand.Rand

	live   int
	bytes  int
	allocs int
	frees  int
	err    error
}

// NewAllocator returns an allocator whose random failures are driven
// by seed.
func NewAllocator(seed uint64) *Allocator {
	return &Allocator{
		rand: rand.New(rand.NewPCG(seed, seed)),
	}
}

// Alloc reserves a block of n bytes unless a failure is due.
func (a *Allocator) Alloc(n int) bool {
	if a.FailAfter > 0 && a.allocs >= a.FailAfter {
		return false
	}
	if a.FailProbability > 0 && a.intn(100) < a.FailProbability {
		return false
	}

	a.live++
	a.bytes += n
	a.allocs++
	return true
}

// Free releases a block of n bytes. Releasing a block when none are
// live is recorded as a double free.
func (a *Allocator) Free(n int) {
	if a.live == 0 {
		if a.err == nil {
			a.err = ErrDoubleFree
		}
		return
	}

	a.live--
	a.bytes -= n
	a.frees++
}

// Live returns the number of blocks currently allocated.
func (a *Allocator) Live() int { return a.live }

// Bytes returns the number of bytes currently allocated.
func (a *Allocator) Bytes() int { return a.bytes }

// Allocs returns the number of successful allocations so far.
func (a *Allocator) Allocs() int { return a.allocs }

// Frees returns the number of blocks released so far.
func (a *Allocator) Frees() int { return a.frees }

// Err returns the first misuse the allocator has seen, if any.
func (a *Allocator) Err() error { return a.err }

// Check returns an error if the allocator has seen a double free or
// if any blocks are still allocated.
func (a *Allocator) Check() error {
	if a.err != nil {
		return a.err
	}
	if a.live != 0 {
		return fmt.Errorf("%w: %v blocks, %v bytes", ErrLeak, a.live, a.bytes)
	}
	return nil
}

func (a *Allocator) intn(n int) int {
	if a.rand == nil {
		a.rand = rand.New(rand.NewPCG(1, 1))
	}
	return a.rand.IntN(n)
}
