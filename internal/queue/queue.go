package queue

const (
	// MaxInitialCapacity is the exclusive upper bound of an initial capacity. Out of range
	// values fall back to a capacity of 1.
	MaxInitialCapacity = 1_000_000
	// DefaultCeiling is the largest backing storage a queue may reach by doubling.
	DefaultCeiling = 1_000_000_000
)

// Queue is a FIFO ring buffer which doubles its storage whenever a push finds it full. It
// never shrinks. Queue is not safe for concurrent use.
type Queue[T any] struct {
	items   []T
	length  int
	read    int
	write   int
	ceiling int
}

// New returns an empty queue. Capacities outside [1, MaxInitialCapacity) are replaced by 1,
// and a non-positive ceiling by DefaultCeiling.
func New[T any](capacity, ceiling int) *Queue[T] {
	if capacity <= 0 || capacity >= MaxInitialCapacity {
		capacity = 1
	}

	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	return &Queue[T]{
		items:   make([]T, capacity),
		ceiling: ceiling,
	}
}

// Push appends the item to the tail. It returns false only if the queue was full and could
// not grow, either because doubling would exceed the ceiling or because it was released.
func (q *Queue[T]) Push(item T) (ok bool) {
	if q.Full() && !q.grow() {
		return false
	}

	q.items[q.write] = item
	q.write = (q.write + 1) % len(q.items)
	q.length++

	return true
}

// Pop removes and returns the oldest item. It returns false if the queue is empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	if q.Empty() {
		return item, false
	}

	var zero T
	item = q.items[q.read]
	// let the slot forget the item, so whatever it captured may be collected
	q.items[q.read] = zero
	q.read = (q.read + 1) % len(q.items)
	q.length--

	return item, true
}

func (q *Queue[T]) grow() bool {
	capacity := len(q.items)
	if capacity == 0 || capacity > q.ceiling/2 {
		return false
	}

	items := make([]T, capacity*2)
	for i := 0; i < q.length; i++ {
		items[i] = q.items[(q.read+i)%capacity]
	}

	q.items = items
	q.read = 0
	q.write = q.length

	return true
}

// Empty reports whether there are no items.
func (q *Queue[T]) Empty() bool {
	return q.length == 0
}

// Full reports whether the next push has to grow the storage.
func (q *Queue[T]) Full() bool {
	return q.length == len(q.items)
}

// Len returns the number of stored items.
func (q *Queue[T]) Len() int {
	return q.length
}

// Cap returns the current size of the backing storage.
func (q *Queue[T]) Cap() int {
	return len(q.items)
}

// Release drops the backing storage together with all the items still queued. Every
// following push fails.
func (q *Queue[T]) Release() {
	q.items = nil
	q.length, q.read, q.write = 0, 0, 0
}
