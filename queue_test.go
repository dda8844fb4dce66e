package strq_test

import (
	"bytes"
	"fmt"
	"testing"

	"deedles.dev/strq"
	"deedles.dev/strq/internal/harness"
	"deedles.dev/strq/internal/natsort"
	"github.com/stretchr/testify/require"
)

// drain empties q and returns what it held.
func drain(t *testing.T, q *strq.Queue) []string {
	t.Helper()

	var vals []string
	buf := make([]byte, 256)
	for q.Size() > 0 {
		require.True(t, q.RemoveHead(buf))
		n := bytes.IndexByte(buf, 0)
		require.GreaterOrEqual(t, n, 0)
		vals = append(vals, string(buf[:n]))
	}
	return vals
}

func fill(t *testing.T, q *strq.Queue, vals ...string) {
	t.Helper()

	for _, v := range vals {
		require.True(t, q.InsertTail(v))
	}
}

func TestQueueInsert(t *testing.T) {
	q := strq.New()
	require.NotNil(t, q)
	require.Equal(t, 0, q.Size())

	require.True(t, q.InsertTail("b"))
	require.True(t, q.InsertTail("a"))
	require.True(t, q.InsertHead("c"))
	require.Equal(t, 3, q.Size())
	require.Equal(t, "[c b a]", q.String())
	require.Equal(t, []string{"c", "b", "a"}, drain(t, q))
	require.Equal(t, 0, q.Size())
}

func TestQueueInsertCopies(t *testing.T) {
	q := strq.New()

	src := []byte("hello")
	require.True(t, q.InsertTail(string(src)))
	src[0] = 'j'

	require.Equal(t, []string{"hello"}, drain(t, q))
}

func TestQueueInsertEmptyString(t *testing.T) {
	q := strq.New()
	require.True(t, q.InsertHead(""))
	require.Equal(t, 1, q.Size())

	buf := []byte{'x', 'x'}
	require.True(t, q.RemoveHead(buf))
	require.Equal(t, []byte{0, 'x'}, buf)
}

func TestQueueRemoveEmpty(t *testing.T) {
	q := strq.New()
	buf := []byte("unchanged")
	require.False(t, q.RemoveHead(buf))
	require.Equal(t, 0, q.Size())
	require.Equal(t, "unchanged", string(buf))

	require.True(t, q.InsertTail("a"))
	require.True(t, q.RemoveHead(nil))
	require.False(t, q.RemoveHead(nil))
	require.Equal(t, 0, q.Size())
}

func TestQueueRemoveTruncates(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []byte
	}{
		{"Zero", 0, []byte{}},
		{"One", 1, []byte{0}},
		{"Three", 3, []byte("he\x00")},
		{"Len", 5, []byte("hell\x00")},
		{"LenPlusOne", 6, []byte("hello\x00")},
		{"Bigger", 8, []byte("hello\x00**")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			q := strq.New()
			require.True(t, q.InsertTail("hello"))
			require.True(t, q.InsertTail("next"))

			buf := bytes.Repeat([]byte{'*'}, test.size)
			require.True(t, q.RemoveHead(buf))
			require.Equal(t, test.want, buf)
			require.Equal(t, 1, q.Size())
		})
	}
}

func TestQueueRemoveNoBuffer(t *testing.T) {
	q := strq.New()
	fill(t, q, "a", "b")
	require.True(t, q.RemoveHead(nil))
	require.Equal(t, []string{"b"}, drain(t, q))
}

func TestQueueInsertRemoveRoundTrip(t *testing.T) {
	q := strq.New()
	fill(t, q, "x", "y", "z")
	before := q.String()

	require.True(t, q.InsertHead("w"))
	buf := make([]byte, 8)
	require.True(t, q.RemoveHead(buf))
	require.Equal(t, "w\x00", string(buf[:2]))
	require.Equal(t, 3, q.Size())
	require.Equal(t, before, q.String())
}

func TestQueueReverse(t *testing.T) {
	q := strq.New()
	q.Reverse()
	require.Equal(t, 0, q.Size())

	fill(t, q, "1")
	q.Reverse()
	require.Equal(t, "[1]", q.String())

	fill(t, q, "2", "3", "4")
	q.Reverse()
	require.Equal(t, "[4 3 2 1]", q.String())
	q.Reverse()
	require.Equal(t, "[1 2 3 4]", q.String())

	require.True(t, q.InsertTail("5"))
	require.True(t, q.InsertHead("0"))
	require.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, drain(t, q))
}

func TestQueueSort(t *testing.T) {
	q := strq.New()
	fill(t, q, "b", "a", "c")
	q.Sort()
	require.Equal(t, "[a b c]", q.String())
	q.Reverse()
	require.Equal(t, "[c b a]", q.String())

	// The tail must still be right after sorting.
	require.True(t, q.InsertTail("d"))
	require.Equal(t, []string{"c", "b", "a", "d"}, drain(t, q))
}

func TestQueueSortNatural(t *testing.T) {
	q := strq.New()
	fill(t, q, "item10", "item2", "item1", "abd", "abc", "item02")
	q.Sort()
	require.Equal(t, "[abc abd item02 item1 item2 item10]", q.String())

	vals := drain(t, q)
	for i := 1; i < len(vals); i++ {
		require.LessOrEqual(t, natsort.Compare(vals[i-1], vals[i]), 0)
	}
}

func TestQueueSortIdempotent(t *testing.T) {
	q := strq.New()
	for i := range 50 {
		require.True(t, q.InsertHead(fmt.Sprintf("v%v", (i*31)%17)))
	}

	q.Sort()
	once := q.String()
	q.Sort()
	require.Equal(t, once, q.String())
	require.Equal(t, 50, q.Size())
}

func TestQueueSortEqualKeys(t *testing.T) {
	// "a1" and "a 1" compare as equal, so their order is kept.
	q := strq.New()
	fill(t, q, "b", "a 1", "a1", "a  1")
	q.Sort()
	require.Equal(t, []string{"a 1", "a1", "a  1", "b"}, drain(t, q))
}

func TestQueueNil(t *testing.T) {
	var q *strq.Queue
	require.False(t, q.InsertHead("a"))
	require.False(t, q.InsertTail("a"))
	require.False(t, q.RemoveHead(make([]byte, 4)))
	require.Equal(t, 0, q.Size())
	require.Equal(t, "<nil>", q.String())
	q.Reverse()
	q.Sort()
	q.Free()
}

func TestQueueString(t *testing.T) {
	q := strq.New()
	require.Equal(t, "[]", q.String())

	for range 40 {
		require.True(t, q.InsertTail("x"))
	}
	s := q.String()
	require.Equal(t, "[x x x x x x x x x x x x x x x x x x x x x x x x x x x x x x ...]", s)
}

func TestQueueFreeAccounting(t *testing.T) {
	var a harness.Allocator
	q := strq.New(strq.WithAllocator(&a))
	require.NotNil(t, q)
	require.Equal(t, 1, a.Live())

	const n = 10
	for i := range n {
		require.True(t, q.InsertTail(fmt.Sprint(i)))
	}
	require.Equal(t, 1+2*n, a.Live())

	q.Sort()
	q.Reverse()
	require.Equal(t, 1+2*n, a.Allocs())

	q.Free()
	require.NoError(t, a.Check())
	require.Equal(t, 1+2*n, a.Frees())
}

func TestQueueRemoveAccounting(t *testing.T) {
	var a harness.Allocator
	q := strq.New(strq.WithAllocator(&a))
	fill(t, q, "abc", "de")
	require.Equal(t, 5, a.Live())

	require.True(t, q.RemoveHead(nil))
	require.Equal(t, 3, a.Live())
	require.Equal(t, 2, a.Frees())

	q.Free()
	require.NoError(t, a.Check())
}

func TestQueueNewFails(t *testing.T) {
	a := harness.Allocator{FailProbability: 100}
	require.Nil(t, strq.New(strq.WithAllocator(&a)))
	require.NoError(t, a.Check())
}

func TestQueueInsertFails(t *testing.T) {
	// Allow the queue and one whole element, then fail on the node of the
	// next element.
	a := harness.Allocator{FailAfter: 3}
	q := strq.New(strq.WithAllocator(&a))
	require.True(t, q.InsertTail("a"))

	before := q.String()
	require.False(t, q.InsertTail("b"))
	require.False(t, q.InsertHead("b"))
	require.Equal(t, 1, q.Size())
	require.Equal(t, before, q.String())
	require.Equal(t, 3, a.Live())

	// Allow the node but fail on the value.
	a.FailAfter = 4
	require.False(t, q.InsertHead("c"))
	require.Equal(t, 1, q.Size())
	require.Equal(t, 3, a.Live())

	q.Free()
	require.NoError(t, a.Check())
}

func TestQueueRandomFailures(t *testing.T) {
	a := harness.NewAllocator(7)
	a.FailProbability = 30

	q := strq.New(strq.WithAllocator(a))
	for q == nil {
		q = strq.New(strq.WithAllocator(a))
	}

	var want int
	for i := range 200 {
		var ok bool
		if i%2 == 0 {
			ok = q.InsertHead(fmt.Sprint(i))
		} else {
			ok = q.InsertTail(fmt.Sprint(i))
		}
		if ok {
			want++
		}
		require.Equal(t, want, q.Size())
		require.Equal(t, 1+2*want, a.Live())

		if i%5 == 0 && q.RemoveHead(nil) {
			want--
		}
	}

	q.Sort()
	require.Equal(t, want, q.Size())
	q.Free()
	require.NoError(t, a.Check())
}
