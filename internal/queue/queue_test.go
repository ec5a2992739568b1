package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(q *Queue[int]) (items []int) {
	for {
		item, ok := q.Pop()
		if !ok {
			return items
		}

		items = append(items, item)
	}
}

func TestQueue(t *testing.T) {
	t.Run("empty pop", func(t *testing.T) {
		q := New[int](4, 0)
		require.True(t, q.Empty())
		_, ok := q.Pop()
		require.False(t, ok)
	})

	t.Run("capacity fallback", func(t *testing.T) {
		for _, capacity := range []int{-5, 0, MaxInitialCapacity, MaxInitialCapacity + 1} {
			require.Equal(t, 1, New[int](capacity, 0).Cap(), capacity)
		}

		require.Equal(t, MaxInitialCapacity-1, New[int](MaxInitialCapacity-1, 0).Cap())
	})

	t.Run("full and empty predicates", func(t *testing.T) {
		q := New[int](2, 0)
		require.True(t, q.Push(1))
		require.False(t, q.Full())
		require.True(t, q.Push(2))
		require.True(t, q.Full())
		require.False(t, q.Empty())
		require.Equal(t, 2, q.Len())
	})

	t.Run("growth keeps order", func(t *testing.T) {
		for k := 1; k <= 8; k++ {
			q := New[int](k, 0)
			want := make([]int, 0, 2*k+1)
			for i := 0; i < 2*k+1; i++ {
				require.True(t, q.Push(i))
				want = append(want, i)
			}

			require.GreaterOrEqual(t, q.Cap(), 2*k+1)
			require.Equal(t, want, drain(q))
		}
	})

	t.Run("growth with wrapped cursors", func(t *testing.T) {
		q := New[int](4, 0)
		for i := 0; i < 4; i++ {
			require.True(t, q.Push(i))
		}

		// move the read cursor forward, so the stored items wrap around the end
		for i := 0; i < 3; i++ {
			item, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, i, item)
		}

		for i := 4; i < 8; i++ {
			require.True(t, q.Push(i))
		}

		require.Equal(t, 4, q.Cap())
		require.True(t, q.Push(8))
		require.Equal(t, 8, q.Cap())
		require.Equal(t, []int{3, 4, 5, 6, 7, 8}, drain(q))
	})

	t.Run("interleaved FIFO", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42))

		for capacity := 1; capacity <= 16; capacity++ {
			q := New[int](capacity, 0)
			var pushed, popped []int

			for i := 0; i < 2000; i++ {
				if rnd.Intn(3) == 0 {
					if item, ok := q.Pop(); ok {
						popped = append(popped, item)
					}
					continue
				}

				require.True(t, q.Push(i))
				pushed = append(pushed, i)
			}

			popped = append(popped, drain(q)...)
			require.Equal(t, pushed, popped, capacity)
		}
	})

	t.Run("ceiling", func(t *testing.T) {
		q := New[int](2, 8)
		for i := 0; i < 8; i++ {
			require.True(t, q.Push(i))
		}

		require.False(t, q.Push(8))
		require.Equal(t, 8, q.Len())
		require.Equal(t, 8, q.Cap())

		item, ok := q.Pop()
		require.True(t, ok)
		require.Zero(t, item)
		require.True(t, q.Push(8))
	})

	t.Run("release", func(t *testing.T) {
		q := New[int](2, 0)
		require.True(t, q.Push(1))
		q.Release()
		require.True(t, q.Empty())
		require.Zero(t, q.Cap())
		require.False(t, q.Push(2))
		_, ok := q.Pop()
		require.False(t, ok)
	})
}

func BenchmarkQueue(b *testing.B) {
	q := New[int](1024, 0)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		q.Push(i)
		q.Pop()
	}
}
