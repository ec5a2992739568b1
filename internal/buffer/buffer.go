package buffer

// Buffer accumulates a single line of input up to a fixed limit. Once the limit would be
// exceeded, appends are refused and the buffer stays unchanged.
type Buffer struct {
	memory []byte
	limit  int
}

func New(initialSize, limit int) *Buffer {
	return &Buffer{
		memory: make([]byte, 0, min(initialSize, limit)),
		limit:  limit,
	}
}

// Append writes data, checking whether the new amount of bytes doesn't exceed the limit,
// otherwise discarding the data and returning false.
func (b *Buffer) Append(data []byte) (ok bool) {
	if len(b.memory)+len(data) > b.limit {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// Preview returns the accumulated bytes. They stay valid until the next Clear.
func (b *Buffer) Preview() []byte {
	return b.memory
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Limit returns the maximal number of bytes the buffer accepts.
func (b *Buffer) Limit() int {
	return b.limit
}

// Clear just resets the length, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.memory = b.memory[:0]
}
