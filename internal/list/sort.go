package list

// mergeSort sorts the n-node chain starting at head and returns the
// new first node. The chain must be terminated by a nil next after
// exactly n nodes.
//
// The left half gets n/2 nodes and the right half the rest, so for odd
// n the right half is the longer one.
func mergeSort[T any](head *SingleNode[T], n int, cmp func(a, b T) int) *SingleNode[T] {
	if n <= 1 {
		return head
	}

	ln := n / 2
	last := head
	for range ln - 1 {
		last = last.next
	}
	right := last.next
	last.next = nil

	left := mergeSort(head, ln, cmp)
	right = mergeSort(right, n-ln, cmp)
	return merge(left, right, cmp)
}

// merge relinks two sorted chains into one. On ties the node from left
// goes first.
func merge[T any](left, right *SingleNode[T], cmp func(a, b T) int) *SingleNode[T] {
	var start SingleNode[T]
	end := &start
	for left != nil && right != nil {
		if cmp(left.Val, right.Val) <= 0 {
			end.next, left = left, left.next
		} else {
			end.next, right = right, right.next
		}
		end = end.next
	}

	if left != nil {
		end.next = left
	} else {
		end.next = right
	}
	return start.next
}
