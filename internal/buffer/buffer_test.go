package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkBuffer(b *testing.B) {
	buff := New(1024, 4096)
	line := []byte(strings.Repeat("a", 1023))

	b.ReportAllocs()
	b.SetBytes(int64(len(line)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = buff.Append(line)
		buff.Clear()
	}
}

func TestBuffer(t *testing.T) {
	t.Run("append within the limit", func(t *testing.T) {
		buff := New(4, 20)
		// grows past the initial size
		require.True(t, buff.Append([]byte("Hello, ")))
		require.True(t, buff.Append([]byte("World!")))
		require.Equal(t, "Hello, World!", string(buff.Preview()))
		require.Equal(t, 13, buff.Len())
	})

	t.Run("exactly the limit", func(t *testing.T) {
		buff := New(10, 5)
		require.True(t, buff.Append([]byte("Hello")))
		require.False(t, buff.Append([]byte{'!'}))
		require.Equal(t, "Hello", string(buff.Preview()))
	})

	t.Run("overflow leaves the buffer intact", func(t *testing.T) {
		buff := New(10, 10)
		require.True(t, buff.Append([]byte("Lorem ")))
		require.False(t, buff.Append([]byte("ipsum")))
		require.Equal(t, "Lorem ", string(buff.Preview()))
	})

	t.Run("clear", func(t *testing.T) {
		buff := New(10, 10)
		require.True(t, buff.Append([]byte("0123456789")))
		buff.Clear()
		require.Zero(t, buff.Len())
		require.True(t, buff.Append([]byte("abc")))
		require.Equal(t, "abc", string(buff.Preview()))
		require.Equal(t, 10, buff.Limit())
	})
}
