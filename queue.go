package strq

import (
	"strings"

	"deedles.dev/strq/internal/list"
	"deedles.dev/strq/internal/natsort"
)

// showLimit is the number of elements String prints before giving up.
const showLimit = 30

// A Queue holds strings in a singly-linked list. Each element is an
// independent copy of the string that was inserted.
//
// All methods may be called on a nil *Queue. Methods that report
// success return false in that case and the rest do nothing.
type Queue struct {
	ls    list.Single[[]byte]
	alloc Allocator
}

// An Option configures a [Queue] created by [New].
type Option func(*Queue)

// WithAllocator makes the queue obtain and release all of its storage
// through a. A nil a is ignored.
func WithAllocator(a Allocator) Option {
	return func(q *Queue) {
		if a != nil {
			q.alloc = a
		}
	}
}

// New returns an empty queue. It returns nil if the queue's allocator
// refuses to provide storage for it.
func New(opts ...Option) *Queue {
	q := Queue{alloc: nopAllocator{}}
	for _, opt := range opts {
		opt(&q)
	}

	if !q.alloc.Alloc(queueBlock) {
		return nil
	}
	return &q
}

// Free releases every element of the queue, in order from the head,
// and then the queue itself. The queue must not be used afterwards.
func (q *Queue) Free() {
	if q == nil {
		return
	}

	q.ls.Drain(q.release)
	q.alloc.Free(queueBlock)
}

// InsertHead adds a copy of s to the head of the queue. It returns
// false, leaving the queue unchanged, if q is nil or if storage for
// the new element can't be allocated.
func (q *Queue) InsertHead(s string) bool {
	v, ok := q.newValue(s)
	if !ok {
		return false
	}

	q.ls.Push(v)
	return true
}

// InsertTail adds a copy of s to the tail of the queue. It fails under
// the same conditions as InsertHead.
func (q *Queue) InsertTail(s string) bool {
	v, ok := q.newValue(s)
	if !ok {
		return false
	}

	q.ls.Enqueue(v)
	return true
}

// RemoveHead removes the element at the head of the queue. It returns
// false if q is nil or empty.
//
// If buf is not empty, as much of the removed string as fits is copied
// into it followed by a zero byte, so at most len(buf)-1 bytes of the
// string are kept. A string that doesn't fit is truncated silently.
func (q *Queue) RemoveHead(buf []byte) bool {
	if q == nil {
		return false
	}

	v, ok := q.ls.Pop()
	if !ok {
		return false
	}

	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], v)
		buf[n] = 0
	}

	q.release(v)
	return true
}

// Size returns the number of elements in the queue.
func (q *Queue) Size() int {
	if q == nil {
		return 0
	}
	return q.ls.Len()
}

// Reverse reverses the order of the elements in the queue. It does not
// allocate or free anything.
func (q *Queue) Reverse() {
	if q == nil {
		return
	}
	q.ls.Reverse()
}

// Sort sorts the queue into ascending natural order, in which runs of
// digits compare by numeric value, so "item2" comes before "item10".
// Elements that compare as equal keep their relative order. Sort does
// not allocate or free anything.
func (q *Queue) Sort() {
	if q == nil {
		return
	}
	q.ls.Sort(natsort.Compare[[]byte])
}

// String returns a readable representation of the queue's contents,
// such as "[a b c]". Long queues are cut short with "...".
func (q *Queue) String() string {
	if q == nil {
		return "<nil>"
	}

	var buf strings.Builder
	buf.WriteByte('[')
	var i int
	for v := range q.ls.All() {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if i == showLimit {
			buf.WriteString("...")
			break
		}
		buf.Write(v)
		i++
	}
	buf.WriteByte(']')
	return buf.String()
}

func (q *Queue) newValue(s string) ([]byte, bool) {
	if q == nil {
		return nil, false
	}

	if !q.alloc.Alloc(nodeBlock) {
		return nil, false
	}
	if !q.alloc.Alloc(len(s)) {
		q.alloc.Free(nodeBlock)
		return nil, false
	}

	v := make([]byte, len(s))
	copy(v, s)
	return v, true
}

func (q *Queue) release(v []byte) {
	q.alloc.Free(len(v))
	q.alloc.Free(nodeBlock)
}
