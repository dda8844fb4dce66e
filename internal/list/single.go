package list

import "iter"

// Single is a singly-linked list that also contains a reference to
// the last node for quick inserts at the head and tail and removals
// at the head. The zero value is an empty list.
//
// The list owns its nodes starting from the head. The tail is only a
// lookup aid and is updated explicitly by every operation that changes
// the shape of the chain.
type Single[T any] struct {
	head, tail *SingleNode[T]
	len        int
}

// Len returns the number of nodes in the list.
func (ls *Single[T]) Len() int {
	return ls.len
}

// Push adds v as a new node at the head of the list.
func (ls *Single[T]) Push(v T) {
	n := &SingleNode[T]{Val: v, next: ls.head}
	ls.head = n
	if ls.tail == nil {
		ls.tail = n
	}
	ls.len++
}

// Enqueue adds v as a new node at the tail of the list.
func (ls *Single[T]) Enqueue(v T) {
	n := ls.tail.insert()
	n.Val = v
	ls.tail = n

	if ls.head == nil {
		ls.head = n
	}
	ls.len++
}

// Pop detaches the current head node from the list and returns its
// value. It returns false if the list was already empty.
func (ls *Single[T]) Pop() (v T, ok bool) {
	if ls.head == nil {
		return v, false
	}

	n := ls.head
	ls.head = n.next
	if ls.head == nil {
		ls.tail = nil
	}
	ls.len--

	n.next = nil
	return n.Val, true
}

// Drain detaches every node in head-to-tail order, calling yield with
// each value. The list is empty afterwards.
func (ls *Single[T]) Drain(yield func(T)) {
	cur := ls.head
	ls.head, ls.tail, ls.len = nil, nil, 0
	for cur != nil {
		next := cur.next
		cur.next = nil
		yield(cur.Val)
		cur = next
	}
}

// All returns an iterator over the elements of the list.
func (ls *Single[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		cur := ls.head
		for cur != nil {
			if !yield(cur.Val) {
				return
			}
			cur = cur.next
		}
	}
}

// Reverse reverses the order of the list in place by relinking the
// existing nodes.
func (ls *Single[T]) Reverse() {
	if ls.len <= 1 {
		return
	}

	var prev *SingleNode[T]
	cur := ls.head
	for cur != nil {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}

	ls.head, ls.tail = ls.tail, ls.head
}

// Sort sorts the list in place with a merge sort using cmp, which must
// return a negative number when a sorts before b, zero when they are
// equal and a positive number otherwise. The sort is stable.
func (ls *Single[T]) Sort(cmp func(a, b T) int) {
	if ls.len <= 1 {
		return
	}

	ls.head = mergeSort(ls.head, ls.len, cmp)

	// The merge doesn't keep track of the last node, so find it again.
	n := ls.head
	for range ls.len - 1 {
		n = n.next
	}
	ls.tail = n
}

// SingleNode is a node of a [Single].
type SingleNode[T any] struct {
	Val  T
	next *SingleNode[T]
}

func (n *SingleNode[T]) insert() *SingleNode[T] {
	if n == nil {
		return new(SingleNode[T])
	}

	n.next = &SingleNode[T]{next: n.next}
	return n.next
}
