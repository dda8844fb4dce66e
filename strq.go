// Package strq provides a queue of strings backed by a singly-linked
// list. Strings can be added at either end and removed from the head,
// and the queue can be reversed or sorted in natural order in place
// without allocating.
//
// A Queue is not safe for concurrent use.
package strq

import (
	"unsafe"

	"deedles.dev/strq/internal/list"
)

// An Allocator hands out the storage that a [Queue] uses. It exists so
// that storage can be accounted for and so that allocation failures
// can be simulated; the queue itself never needs one.
//
// Every successful call to Alloc is eventually matched by exactly one
// call to Free with the same size.
type Allocator interface {
	// Alloc reserves a block of n bytes. It returns false if the block
	// can't be provided.
	Alloc(n int) bool

	// Free releases a block of n bytes previously reserved with Alloc.
	Free(n int)
}

type nopAllocator struct{}

func (nopAllocator) Alloc(int) bool { return true }
func (nopAllocator) Free(int)       {}

var (
	queueBlock = int(unsafe.Sizeof(Queue{}))
	nodeBlock  = int(unsafe.Sizeof(list.SingleNode[[]byte]{}))
)
